package rts

import (
	"context"

	"stronghold.rts/internal/protocol"
)

// ClockSource supplies the monotonically non-decreasing logical tick. The
// engine never generates its own time.
type ClockSource interface {
	Now() uint64
}

// ActionEnvelope is one submitted action or query. Exactly one of Act/Get
// is set. Resp, if non-nil, receives the result.
type ActionEnvelope struct {
	Player PlayerID
	Act    *protocol.ActMsg
	Get    *protocol.GetMsg
	Resp   chan Result
}

// Result is the value-returned outcome of a single call. Code is one of
// the protocol E_* constants when OK is false. Event is set on mutating
// successes; Value carries query answers and success payloads.
type Result struct {
	OK      bool
	Code    string
	Message string
	Tick    uint64
	Event   *protocol.Event
	Value   any
}

// ActionLogger records every applied action for replay/verification.
type ActionLogger interface {
	WriteAction(entry ActionLogEntry) error
}

// EventLogger records every emitted domain event.
type EventLogger interface {
	WriteEvent(entry EventLogEntry) error
}

type ActionLogEntry struct {
	Seq    uint64           `json:"seq"`
	Tick   uint64           `json:"tick"`
	Player string           `json:"player"`
	Act    *protocol.ActMsg `json:"act,omitempty"`
	OK     bool             `json:"ok"`
	Code   string           `json:"code,omitempty"`
	Digest string           `json:"digest"`
}

type EventLogEntry struct {
	Seq   uint64         `json:"seq"`
	Tick  uint64         `json:"tick"`
	Event protocol.Event `json:"event"`
}

// Engine is the single-threaded authoritative state machine. All state
// must be accessed only from the engine loop goroutine (or, in tests, from
// one goroutine calling StepOnce/Apply directly).
type Engine struct {
	cfg Config

	campaign    *Campaign
	campaignSeq uint64
	players     map[PlayerID]*Player
	raids       map[raidKey]*Raid

	seq      uint64
	lastTick uint64

	inbox chan ActionEnvelope

	actionLogger ActionLogger
	eventLogger  EventLogger
}

func New(cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		cfg:     cfg,
		players: map[PlayerID]*Player{},
		raids:   map[raidKey]*Raid{},
		inbox:   make(chan ActionEnvelope, 1024),
	}
}

func (e *Engine) Config() Config                  { return e.cfg }
func (e *Engine) Inbox() chan<- ActionEnvelope    { return e.inbox }
func (e *Engine) SetActionLogger(l ActionLogger)  { e.actionLogger = l }
func (e *Engine) SetEventLogger(l EventLogger)    { e.eventLogger = l }
func (e *Engine) CurrentTick() uint64             { return e.lastTick }
func (e *Engine) AppliedActions() uint64          { return e.seq }

// Run consumes the inbox until ctx is done, stamping each envelope with
// the clock source's tick. This is the only goroutine allowed to touch
// engine state once started.
func (e *Engine) Run(ctx context.Context, clock ClockSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-e.inbox:
			res := e.step(env, clock.Now())
			if env.Resp != nil {
				env.Resp <- res
			}
		}
	}
}

// StepOnce applies a batch of envelopes in order at the given tick and
// returns per-envelope results. State observed by envelope N reflects
// exactly envelopes 1..N-1.
func (e *Engine) StepOnce(envs []ActionEnvelope, now uint64) []Result {
	out := make([]Result, 0, len(envs))
	for _, env := range envs {
		out = append(out, e.step(env, now))
	}
	return out
}

func (e *Engine) step(env ActionEnvelope, now uint64) Result {
	// The host clock contract is non-decreasing; clamp so a misbehaving
	// source cannot make elapsed-time arithmetic underflow.
	if now < e.lastTick {
		now = e.lastTick
	}
	e.lastTick = now

	switch {
	case env.Get != nil:
		res := e.Query(*env.Get, now)
		res.Tick = now
		return res
	case env.Act != nil:
		res := e.Apply(env.Player, *env.Act, now)
		res.Tick = now
		e.seq++
		e.journalAction(env.Player, env.Act, res, now)
		if res.Event != nil {
			e.journalEvent(*res.Event, now)
		}
		return res
	default:
		return fail(protocol.ErrBadRequest, "empty envelope")
	}
}

type actionFunc func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result

var actionDispatch = map[string]actionFunc{
	protocol.ActCreateCampaign: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		if act.Stock == nil {
			return fail(protocol.ErrBadRequest, "missing stock")
		}
		return e.CreateCampaign(p, now, *act.Stock)
	},
	protocol.ActSendExpedition: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.SendExpedition(p, now, act.Resource, act.Pawns)
	},
	protocol.ActReturnExpedition: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.ReturnExpedition(p, now, act.Resource, act.Slot)
	},
	protocol.ActRefine: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.Refine(p, now, act.Wood, act.Rock)
	},
	protocol.ActStartRefine: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.StartRefine(p, now, act.Wood, act.Rock)
	},
	protocol.ActCollectRefine: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.CollectRefine(p, now)
	},
	protocol.ActTrainSoldiers: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.Train(p, now, act.UnitType, act.Amount)
	},
	protocol.ActClaimSoldiers: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.ClaimSoldiers(p, now, act.UnitType)
	},
	protocol.ActSendRaid: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		if act.Army == nil {
			return fail(protocol.ErrBadRequest, "missing army")
		}
		return e.SendRaid(p, now, PlayerID(act.Defender), *act.Army)
	},
	protocol.ActReturnRaid: func(e *Engine, p PlayerID, act protocol.ActMsg, now uint64) Result {
		return e.ReturnRaid(p, now, PlayerID(act.Defender))
	},
}

// Apply dispatches one mutating action. Failures never change state.
func (e *Engine) Apply(p PlayerID, act protocol.ActMsg, now uint64) Result {
	if h := actionDispatch[act.Action]; h != nil {
		return h(e, p, act, now)
	}
	return fail(protocol.ErrBadRequest, "unknown action: "+act.Action)
}

func (e *Engine) journalAction(p PlayerID, act *protocol.ActMsg, res Result, now uint64) {
	if e.actionLogger == nil {
		return
	}
	_ = e.actionLogger.WriteAction(ActionLogEntry{
		Seq:    e.seq,
		Tick:   now,
		Player: string(p),
		Act:    act,
		OK:     res.OK,
		Code:   res.Code,
		Digest: e.Digest(),
	})
}

func (e *Engine) journalEvent(ev protocol.Event, now uint64) {
	if e.eventLogger == nil {
		return
	}
	_ = e.eventLogger.WriteEvent(EventLogEntry{Seq: e.seq, Tick: now, Event: ev})
}

func fail(code, message string) Result {
	if !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
	}
	return Result{OK: false, Code: code, Message: message}
}

func emit(action string, value any) Result {
	return Result{
		OK:    true,
		Value: value,
		Event: &protocol.Event{Object: protocol.EventObject, Action: action, Value: value},
	}
}
