package schemas

const DEFAULT_CRM_NAME = "CRM System"

type SystemSettings struct {
	CRMName string `json:"crm_name" redis:"crm_name"`
	LogoURL string `json:"logo_url" redis:"logo_url"`
}
