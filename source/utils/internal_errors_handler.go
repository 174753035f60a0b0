package utils

import "fmt"

const (
	_ = iota
	CANNOT_FIND_USER_IN_MYSQL
	CANNOT_UPDATE_USER_IN_MYSQL
	CANNOT_SIGN_TOKEN
	CANNOT_HASH_PASSWORD

	CANNOT_FIND_CLIENTS_IN_MYSQL
	CANNOT_FIND_CLIENT_BY_ID_IN_MYSQL
	CANNOT_INSERT_CLIENT_TO_MYSQL
	CANNOT_UPDATE_CLIENT_IN_MYSQL
	CANNOT_DELETE_CLIENT_FROM_MYSQL

	CANNOT_FIND_FUNNELS_IN_MYSQL
	CANNOT_FIND_FUNNEL_BY_ID_IN_MYSQL
	CANNOT_INSERT_FUNNEL_TO_MYSQL
	CANNOT_UPDATE_FUNNEL_IN_MYSQL
	CANNOT_DELETE_FUNNEL_FROM_MYSQL

	CANNOT_FIND_LEADS_IN_MYSQL
	CANNOT_FIND_LEAD_BY_ID_IN_MYSQL
	CANNOT_INSERT_LEAD_TO_MYSQL
	CANNOT_UPDATE_LEAD_IN_MYSQL
	CANNOT_DELETE_LEAD_FROM_MYSQL
	CANNOT_FIND_LEADS_HISTORY_IN_MONGODB

	CANNOT_FIND_WEBHOOKS_IN_MYSQL
	CANNOT_FIND_WEBHOOK_BY_ID_IN_MYSQL
	CANNOT_INSERT_WEBHOOK_TO_MYSQL
	CANNOT_UPDATE_WEBHOOK_IN_MYSQL
	CANNOT_DELETE_WEBHOOK_FROM_MYSQL
	CANNOT_FIND_WEBHOOK_LOGS_IN_MYSQL

	CANNOT_FIND_ORIGINS_IN_MYSQL
	CANNOT_INSERT_ORIGIN_TO_MYSQL
	CANNOT_UPDATE_ORIGIN_IN_MYSQL
	CANNOT_DELETE_ORIGIN_FROM_MYSQL

	CANNOT_FIND_SETTINGS_IN_REDIS
	CANNOT_UPDATE_SETTINGS_IN_REDIS

	CANNOT_FIND_USERS_IN_MYSQL
	CANNOT_INSERT_USER_TO_MYSQL
	CANNOT_DELETE_USER_FROM_MYSQL

	CANNOT_BUILD_REPORT_IN_MYSQL
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("Ocorreu um erro interno no servidor. Por favor, tente novamente mais tarde (Cod: %d)", internalErrorCode)
}
