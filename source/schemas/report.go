package schemas

const (
	REPORT_TYPE_LEADS   = "leads"
	REPORT_TYPE_CLIENTS = "clients"
)

type StageCount struct {
	StageID  int64  `json:"stage_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
	Count    int64  `json:"count"`
}
