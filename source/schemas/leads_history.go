package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	LEAD_HISTORY_CREATED       = "created"
	LEAD_HISTORY_UPDATED       = "updated"
	LEAD_HISTORY_STAGE_CHANGED = "stage_changed"
	LEAD_HISTORY_STATUS        = "status_changed"
	LEAD_HISTORY_DELETED       = "deleted"
)

type LeadHistory struct {
	ID            bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LeadID        int64         `json:"lead_id" bson:"lead_id"`
	ClientID      int64         `json:"client_id" bson:"client_id"`
	FunnelID      int64         `json:"funnel_id" bson:"funnel_id"`
	RelatedUser   int64         `json:"related_user" bson:"related_user"`
	Action        string        `json:"action" bson:"action"`
	PreviousStage string        `json:"previous_stage,omitempty" bson:"previous_stage,omitempty"`
	NewStage      string        `json:"new_stage,omitempty" bson:"new_stage,omitempty"`
	Status        string        `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}
