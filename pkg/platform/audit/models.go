// Package audit captures key domain actions as structured events. Services
// emit through a Publisher; events fan out to a store and optional external
// sinks. Keep the model transport-agnostic so sinks can vary.
package audit

import (
	"context"
	"time"

	"ongfinder/pkg/domain"
)

// Event records one domain action.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Action    Action          `json:"action"`
	ActorKind domain.UserKind `json:"actor_kind,omitempty"`
	// ActorID is the account that performed the action; zero for anonymous
	// actions such as failed logins against unknown emails.
	ActorID int64 `json:"actor_id,omitempty"`
	// SubjectID is the entity acted upon (application, position, volunteer),
	// when different from the actor.
	SubjectID int64 `json:"subject_id,omitempty"`
	// RequestID correlates the event with the HTTP access log.
	RequestID string `json:"request_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type Action string

const (
	ActionLoginSucceeded           Action = "login_succeeded"
	ActionLoginFailed              Action = "login_failed"
	ActionLoginThrottled           Action = "login_throttled"
	ActionAccountCreated           Action = "account_created"
	ActionProfileUpdated           Action = "profile_updated"
	ActionPositionCreated          Action = "position_created"
	ActionPositionUpdated          Action = "position_updated"
	ActionApplicationSubmitted     Action = "application_submitted"
	ActionApplicationStatusUpdated Action = "application_status_updated"
	ActionRosterJoined             Action = "roster_joined"
)

// Store persists events and supports bounded reads for admin tooling and
// tests.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
