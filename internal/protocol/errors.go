package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Campaign registry.
	ErrDuplicateCampaign = "E_DUPLICATE_CAMPAIGN"
	ErrZeroStock         = "E_ZERO_STOCK"
	ErrNoCampaign        = "E_NO_CAMPAIGN"

	// Ledger / scheduler.
	ErrInsufficientIdlePawns = "E_INSUFFICIENT_IDLE_PAWNS"
	ErrInsufficientResources = "E_INSUFFICIENT_RESOURCES"
	ErrSlotsFull             = "E_SLOTS_FULL"
	ErrSlotEmpty             = "E_SLOT_EMPTY"

	// Refinery.
	ErrWoodRange     = "E_WOOD_RANGE"
	ErrRockRange     = "E_ROCK_RANGE"
	ErrRatioMismatch = "E_RATIO_MISMATCH"
	ErrRefinePending = "E_REFINE_PENDING"
	ErrRefineTooSoon = "E_REFINE_TOO_SOON"

	// Training.
	ErrTrainingPending = "E_TRAINING_PENDING"
	ErrNothingTraining = "E_NOTHING_TRAINING"
	ErrTrainTooSoon    = "E_TRAIN_TOO_SOON"

	// Raiding.
	ErrInsufficientArmy = "E_INSUFFICIENT_ARMY"
	ErrRaidPending      = "E_RAID_PENDING"
	ErrDefenderCooldown = "E_DEFENDER_COOLDOWN"
	ErrRaidNotFound     = "E_RAID_NOT_FOUND"
	ErrRaidTooSoon      = "E_RAID_TOO_SOON"
	ErrBadTarget        = "E_BAD_TARGET"

	// Generic.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:       {},
	ErrDuplicateCampaign:     {},
	ErrZeroStock:             {},
	ErrNoCampaign:            {},
	ErrInsufficientIdlePawns: {},
	ErrInsufficientResources: {},
	ErrSlotsFull:             {},
	ErrSlotEmpty:             {},
	ErrWoodRange:             {},
	ErrRockRange:             {},
	ErrRatioMismatch:         {},
	ErrRefinePending:         {},
	ErrRefineTooSoon:         {},
	ErrTrainingPending:       {},
	ErrNothingTraining:       {},
	ErrTrainTooSoon:          {},
	ErrInsufficientArmy:      {},
	ErrRaidPending:           {},
	ErrDefenderCooldown:      {},
	ErrRaidNotFound:          {},
	ErrRaidTooSoon:           {},
	ErrBadTarget:             {},
	ErrBadRequest:            {},
	ErrInternal:              {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
