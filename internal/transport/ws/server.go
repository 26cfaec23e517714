package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

// Server exposes the engine over websocket. Identity is the authenticated
// player name; the dev default trusts HELLO. Every ACT/GET is forwarded to
// the engine loop and answered in order on the same connection.
type Server struct {
	engine *rts.Engine
	clock  rts.ClockSource
	log    *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(e *rts.Engine, clock rts.ClockSource, logger *log.Logger) *Server {
	return &Server{
		engine: e,
		clock:  clock,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.ProtocolVersion != protocol.Version {
				continue
			}
			switch base.Type {
			case protocol.TypeAct:
				var act protocol.ActMsg
				if err := json.Unmarshal(msg, &act); err != nil {
					continue
				}
				res := s.submit(rts.ActionEnvelope{Player: rts.PlayerID(playerID), Act: &act})
				s.send(out, protocol.ResultMsg{
					Type:            protocol.TypeResult,
					ProtocolVersion: protocol.Version,
					Ref:             act.ID,
					OK:              res.OK,
					Code:            res.Code,
					Message:         res.Message,
					Tick:            res.Tick,
					Event:           res.Event,
				})
			case protocol.TypeGet:
				var get protocol.GetMsg
				if err := json.Unmarshal(msg, &get); err != nil {
					continue
				}
				res := s.submit(rts.ActionEnvelope{Player: rts.PlayerID(playerID), Get: &get})
				if !res.OK {
					s.send(out, protocol.ResultMsg{
						Type:            protocol.TypeResult,
						ProtocolVersion: protocol.Version,
						Ref:             get.ID,
						OK:              false,
						Code:            res.Code,
						Message:         res.Message,
						Tick:            res.Tick,
					})
					continue
				}
				s.send(out, protocol.StateMsg{
					Type:            protocol.TypeState,
					ProtocolVersion: protocol.Version,
					Ref:             get.ID,
					Tick:            res.Tick,
					Value:           res.Value,
				})
			}
		}
	}
}

// submit routes one envelope through the engine loop and waits for its
// result, preserving per-connection ordering.
func (s *Server) submit(env rts.ActionEnvelope) rts.Result {
	resp := make(chan rts.Result, 1)
	env.Resp = resp
	s.engine.Inbox() <- env
	return <-resp
}

func (s *Server) handshake(conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	playerID = strings.TrimSpace(hello.PlayerName)
	if playerID == "" {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "empty player_name"), time.Now().Add(time.Second))
		return "", nil
	}

	out = make(chan []byte, 16)
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       uuid.NewString(),
		PlayerID:        playerID,
		DayTicks:        s.engine.Config().DayTicks,
		CurrentTick:     s.clock.Now(),
	}
	b, _ := json.Marshal(welcome)
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return "", nil
	}
	return playerID, out
}

func (s *Server) send(out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("marshal outbound: %v", err)
		return
	}
	select {
	case out <- b:
	default:
		// Slow consumer: drop rather than stall the reader loop.
	}
}
