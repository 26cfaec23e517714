package protocol

// Domain event actions. Every state-mutating engine call emits exactly one
// event; Value is the resulting entity snapshot, so callers can recover the
// timestamp the engine assigned.
const (
	EvCampaignCreated    = "campaign-created"
	EvExpeditionSent     = "expedition-sent"
	EvExpeditionReturned = "expedition-returned"
	EvRefineStarted      = "refine-started"
	EvRefineCollected    = "refine-collected"
	EvTrainingStarted    = "training-started"
	EvTrainingClaimed    = "training-claimed"
	EvRaidSent           = "raid-sent"
	EvRaidResolved       = "raid-resolved"
)

// EventObject tags every event emitted by the engine.
const EventObject = "rts"

type Event struct {
	Object string `json:"object"`
	Action string `json:"action"`
	Value  any    `json:"value"`
}
