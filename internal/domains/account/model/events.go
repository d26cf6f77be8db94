package model

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
)

// Lifecycle event operations.
const (
	EventCreated     = "created"
	EventUpdated     = "updated"
	EventInactivated = "inactivated"
	EventReactivated = "reactivated"
)

// Event payload variants. Exactly one is set per event.

type CreatedPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatedPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type InactivatedPayload struct {
	Reason string `json:"reason"`
}

type ReactivatedPayload struct {
	Reason string `json:"reason"`
}

// AccountEvent is the envelope announced to other services after a state
// transition commits. It is transient: built, handed to the broker client,
// and never persisted by this service.
type AccountEvent struct {
	EventID   string    `json:"event_id"`
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`

	Created     *CreatedPayload     `json:"created,omitempty"`
	Updated     *UpdatedPayload     `json:"updated,omitempty"`
	Inactivated *InactivatedPayload `json:"inactivated,omitempty"`
	Reactivated *ReactivatedPayload `json:"reactivated,omitempty"`
}

func NewCreatedEvent(accountID, name, description string) *AccountEvent {
	ev := newBaseEvent(accountID, EventCreated)
	ev.Created = &CreatedPayload{Name: name, Description: description}
	return ev
}

func NewUpdatedEvent(accountID, name, description string) *AccountEvent {
	ev := newBaseEvent(accountID, EventUpdated)
	ev.Updated = &UpdatedPayload{Name: name, Description: description}
	return ev
}

func NewInactivatedEvent(accountID, reason string) *AccountEvent {
	ev := newBaseEvent(accountID, EventInactivated)
	ev.Inactivated = &InactivatedPayload{Reason: reason}
	return ev
}

func NewReactivatedEvent(accountID, reason string) *AccountEvent {
	ev := newBaseEvent(accountID, EventReactivated)
	ev.Reactivated = &ReactivatedPayload{Reason: reason}
	return ev
}

func newBaseEvent(accountID, operation string) *AccountEvent {
	now := time.Now().UTC()
	return &AccountEvent{
		EventID:   generateEventID(accountID, operation, now),
		AccountID: accountID,
		Timestamp: now,
		Type:      operation,
	}
}

// generateEventID derives an opaque id from account_id + operation +
// emission millis. Collision-tolerant, not globally unique.
func generateEventID(accountID, operation string, ts time.Time) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s%s%d", accountID, operation, ts.UnixMilli())
	return fmt.Sprintf("%d", h.Sum32())
}

// OrderingKey is the broker partition key. It depends on the account id
// alone so every event for one account lands on the same partition.
// Account ids that already are UUIDs pass through; anything else maps to
// a deterministic name-based UUID.
func (e *AccountEvent) OrderingKey() string {
	if id, err := uuid.Parse(e.AccountID); err == nil {
		return id.String()
	}
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(e.AccountID)).String()
}
