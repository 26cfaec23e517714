package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrDuplicateCampaign,
		ErrZeroStock,
		ErrNoCampaign,
		ErrInsufficientIdlePawns,
		ErrInsufficientResources,
		ErrSlotsFull,
		ErrSlotEmpty,
		ErrWoodRange,
		ErrRockRange,
		ErrRatioMismatch,
		ErrRefinePending,
		ErrRefineTooSoon,
		ErrTrainingPending,
		ErrNothingTraining,
		ErrTrainTooSoon,
		ErrInsufficientArmy,
		ErrRaidPending,
		ErrDefenderCooldown,
		ErrRaidNotFound,
		ErrRaidTooSoon,
		ErrBadTarget,
		ErrBadRequest,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}
