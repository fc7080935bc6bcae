package events

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent is the lightweight message published when a transaction
// changes. Consumers fetch the full row themselves if they need it.
type TransactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Action        string    `json:"action"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewTransactionEvent(transactionID, userID, action string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		OccurredAt:    time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
