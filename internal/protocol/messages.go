package protocol

// Action names carried in ACT messages.
const (
	ActCreateCampaign   = "CREATE_CAMPAIGN"
	ActSendExpedition   = "SEND_EXPEDITION"
	ActReturnExpedition = "RETURN_EXPEDITION"
	ActRefine           = "REFINE"
	ActStartRefine      = "START_REFINE"
	ActCollectRefine    = "COLLECT_REFINE"
	ActTrainSoldiers    = "TRAIN_SOLDIERS"
	ActClaimSoldiers    = "CLAIM_SOLDIERS"
	ActSendRaid         = "SEND_RAID"
	ActReturnRaid       = "RETURN_RAID"
)

// Query names carried in GET messages.
const (
	GetPlayer       = "GET_PLAYER"
	GetCampaign     = "GET_CAMPAIGN"
	GetExpedition   = "GET_EXPEDITION"
	GetTraining     = "GET_TRAINING"
	GetRaid         = "GET_RAID"
	GetProjectYield = "PROJECT_YIELD"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	PlayerID        string `json:"player_id"`
	DayTicks        uint64 `json:"day_ticks"`
	CurrentTick     uint64 `json:"current_tick"`
}

// ACT (client -> server): one state-mutating action.
// Fields beyond ID/Action are action-specific; unused ones are omitted.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"`

	Stock    *[4]int64 `json:"stock,omitempty"`
	Resource int       `json:"resource,omitempty"`
	Slot     int       `json:"slot,omitempty"`
	Pawns    int64     `json:"pawns,omitempty"`
	Wood     int64     `json:"wood,omitempty"`
	Rock     int64     `json:"rock,omitempty"`
	UnitType int       `json:"unit_type,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	Defender string    `json:"defender,omitempty"`
	Army     *[3]int64 `json:"army,omitempty"`
}

// GET (client -> server): a read-only query.
type GetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Query           string `json:"query"`

	Player   string `json:"player,omitempty"`
	Resource int    `json:"resource,omitempty"`
	Slot     int    `json:"slot,omitempty"`
	UnitType int    `json:"unit_type,omitempty"`
	Invader  string `json:"invader,omitempty"`
	Defender string `json:"defender,omitempty"`
	Pawns    int64  `json:"pawns,omitempty"`
	Elapsed  uint64 `json:"elapsed,omitempty"`
}

// RESULT (server -> client): outcome of one ACT.
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Tick            uint64 `json:"tick"`
	Event           *Event `json:"event,omitempty"`
}

// STATE (server -> client): answer to one GET.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	Tick            uint64 `json:"tick"`
	Value           any    `json:"value"`
}
