package rts

import "stronghold.rts/internal/protocol"

// CampaignView is the query/event snapshot of the campaign record.
type CampaignView struct {
	ID       uint64   `json:"id"`
	Start    uint64   `json:"start"`
	Duration uint64   `json:"duration"`
	Stock    [4]int64 `json:"stock"`
	Active   bool     `json:"active"`
}

// CreateCampaign installs a new campaign. Exactly one campaign may be
// active; expiry is purely time-based, so a new campaign is permitted as
// soon as now >= start+duration of the previous one.
func (e *Engine) CreateCampaign(caller PlayerID, now uint64, stock [4]int64) Result {
	if e.campaign.Active(now) {
		return fail(protocol.ErrDuplicateCampaign, "campaign already active")
	}
	// Wood, rock and food stock must be positive; gold is unconstrained.
	for i := ResWood; i <= ResFood; i++ {
		if stock[i] <= 0 {
			return fail(protocol.ErrZeroStock, "world stock must be positive")
		}
	}

	e.campaignSeq++
	e.campaign = &Campaign{
		ID:       e.campaignSeq,
		Start:    now,
		Duration: e.cfg.CampaignDurationTicks(),
		Stock:    stock,
	}
	if e.cfg.ResetPlayersOnNewCampaign {
		e.players = map[PlayerID]*Player{}
		e.raids = map[raidKey]*Raid{}
	}
	return emit(protocol.EvCampaignCreated, e.campaignView(now))
}

func (e *Engine) campaignView(now uint64) CampaignView {
	c := e.campaign
	if c == nil {
		return CampaignView{}
	}
	return CampaignView{
		ID:       c.ID,
		Start:    c.Start,
		Duration: c.Duration,
		Stock:    c.Stock,
		Active:   c.Active(now),
	}
}

// requireCampaign gates the start of new timed activities. Settling an
// activity already in flight is never gated, so committed pawns cannot be
// stranded by campaign expiry.
func (e *Engine) requireCampaign(now uint64) bool {
	return e.campaign.Active(now)
}
