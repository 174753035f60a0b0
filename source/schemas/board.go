package schemas

const (
	BOARD_ACTION_LEAD_CREATED = "lead_created"
	BOARD_ACTION_LEAD_UPDATED = "lead_updated"
	BOARD_ACTION_LEAD_MOVED   = "lead_moved"
	BOARD_ACTION_LEAD_DELETED = "lead_deleted"
)

type BoardMessage struct {
	Action   string `json:"action"`
	LeadID   int64  `json:"lead_id"`
	ClientID int64  `json:"client_id"`
	FunnelID int64  `json:"funnel_id"`
	StageID  int64  `json:"stage_id,omitempty"`
	Details  string `json:"details,omitempty"`
}
