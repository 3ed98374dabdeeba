package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshMessage announces that a user's report dataset was
// reloaded from the spreadsheet. Consumers re-render from the API rather
// than from the message, so only counts travel with it.
type DatasetRefreshMessage struct {
	UserID       string    `json:"user_id"`
	Referrals    int       `json:"referrals"`
	Transactions int       `json:"transactions"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewDatasetRefreshMessage creates a refresh announcement for a user
func NewDatasetRefreshMessage(userID string, referrals, transactions int) *DatasetRefreshMessage {
	return &DatasetRefreshMessage{
		UserID:       userID,
		Referrals:    referrals,
		Transactions: transactions,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetRefreshMessageFromJSON creates a message from JSON bytes
func DatasetRefreshMessageFromJSON(data []byte) (*DatasetRefreshMessage, error) {
	var msg DatasetRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
