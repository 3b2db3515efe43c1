package amqp

import (
	"encoding/json"
	"time"
)

// Action names the ledger mutation a message describes.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return true
	default:
		return false
	}
}

// TransactionEventMessage is a lightweight change notification. It carries
// only the id and action; consumers refetch the row from the ledger store,
// so a stale message never overwrites newer data.
type TransactionEventMessage struct {
	ID        int64     `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(id int64, action Action) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes.
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
