package settings

import (
	"context"
	"crm/source/schemas"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const SETTINGS_KEY = "crm:settings"

type SettingsPatch struct {
	CRMName *string
	LogoURL *string
}

type Store interface {
	Get(ctx context.Context) (schemas.SystemSettings, error)
	Update(ctx context.Context, patch SettingsPatch) (schemas.SystemSettings, error)
}

type redisStore struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context) (schemas.SystemSettings, error) {
	settings := schemas.SystemSettings{}
	if err := s.rdb.HGetAll(ctx, SETTINGS_KEY).Scan(&settings); err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.CRMName == "" {
		settings.CRMName = schemas.DEFAULT_CRM_NAME
	}
	return settings, nil
}

func (s *redisStore) Update(ctx context.Context, patch SettingsPatch) (schemas.SystemSettings, error) {
	values := map[string]any{}
	if patch.CRMName != nil {
		values["crm_name"] = *patch.CRMName
	}
	if patch.LogoURL != nil {
		values["logo_url"] = *patch.LogoURL
	}

	if len(values) > 0 {
		if err := s.rdb.HSet(ctx, SETTINGS_KEY, values).Err(); err != nil {
			return schemas.SystemSettings{}, fmt.Errorf("failed to write settings: %w", err)
		}
	}
	return s.Get(ctx)
}
