package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action names what happened to a transaction.
type Action string

const (
	ActionCreated         Action = "transaction.created"
	ActionUpdated         Action = "transaction.updated"
	ActionDeleted         Action = "transaction.deleted"
	ActionImportCompleted Action = "import.completed"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionImportCompleted:
		return true
	}
	return false
}

// TransactionEvent is deliberately small: consumers fetch the record itself
// from the store by owner and id.
type TransactionEvent struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	Action    Action    `json:"action"`
	Imported  int       `json:"imported,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action Action, ownerID, id string) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		OwnerID:   ownerID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// NewImportCompletedEvent summarizes one finished import.
func NewImportCompletedEvent(ownerID string, imported int) *TransactionEvent {
	e := NewTransactionEvent(ActionImportCompleted, ownerID, "")
	e.Imported = imported
	return e
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Action.Valid() {
		return nil, fmt.Errorf("unknown event action %q", msg.Action)
	}
	if msg.OwnerID == "" {
		return nil, fmt.Errorf("event without owner")
	}
	return &msg, nil
}
