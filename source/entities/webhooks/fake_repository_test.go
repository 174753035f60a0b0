package webhooks

import (
	"context"
	"crm/source/schemas"
	"sync"
)

type fakeRepository struct {
	mu       sync.Mutex
	webhooks map[int64]schemas.Webhook
	funnels  map[int64]int64 // funnel id -> client id
	logs     []schemas.WebhookLog
	created  *schemas.Webhook
	patched  *WebhookPatch
}

func newFakeRepository(hooks ...schemas.Webhook) *fakeRepository {
	repo := &fakeRepository{webhooks: map[int64]schemas.Webhook{}, funnels: map[int64]int64{10: 3, 20: 4}}
	for _, hook := range hooks {
		repo.webhooks[hook.ID] = hook
	}
	return repo
}

func (f *fakeRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.Webhook, error) {
	out := []schemas.Webhook{}
	for _, hook := range f.webhooks {
		if clientID == nil || hook.ClientID == *clientID {
			out = append(out, hook)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Webhook, error) {
	hook, ok := f.webhooks[id]
	if !ok || (clientID != nil && hook.ClientID != *clientID) {
		return nil, ErrWebhookNotFound
	}
	return &hook, nil
}

// FindSubscribed mirrors the SQL filter: same client, active, funnel match or unscoped.
func (f *fakeRepository) FindSubscribed(ctx context.Context, clientID, funnelID int64) ([]schemas.Webhook, error) {
	out := []schemas.Webhook{}
	for id := int64(1); id <= int64(len(f.webhooks))+10; id++ {
		hook, ok := f.webhooks[id]
		if !ok || hook.ClientID != clientID || !hook.Active {
			continue
		}
		if hook.FunnelID != nil && *hook.FunnelID != funnelID {
			continue
		}
		out = append(out, hook)
	}
	return out, nil
}

func (f *fakeRepository) FunnelBelongsTo(ctx context.Context, funnelID, clientID int64) (bool, error) {
	owner, ok := f.funnels[funnelID]
	return ok && owner == clientID, nil
}

func (f *fakeRepository) ClientIsActive(ctx context.Context, clientID int64) (bool, error) {
	return clientID == 3 || clientID == 4, nil
}

func (f *fakeRepository) Create(ctx context.Context, webhook schemas.Webhook) (int64, error) {
	f.created = &webhook
	return 77, nil
}

func (f *fakeRepository) Update(ctx context.Context, id int64, patch WebhookPatch) error {
	if _, ok := f.webhooks[id]; !ok {
		return ErrWebhookNotFound
	}
	f.patched = &patch
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := f.webhooks[id]; !ok {
		return ErrWebhookNotFound
	}
	delete(f.webhooks, id)
	return nil
}

func (f *fakeRepository) InsertLog(ctx context.Context, log schemas.WebhookLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeRepository) FindLogs(ctx context.Context, webhookID int64, limit int) ([]schemas.WebhookLog, error) {
	out := []schemas.WebhookLog{}
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.logs[i].WebhookID == webhookID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}
