package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DatasetLoadedMessage announces the outcome of the single dataset fetch.
type DatasetLoadedMessage struct {
	MessageID    string    `json:"message_id"`
	Source       string    `json:"source"`
	State        string    `json:"state"`
	Customers    int       `json:"customers"`
	Transactions int       `json:"transactions"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewDatasetLoadedMessage(source, state string, customers, transactions int, loadErr error) *DatasetLoadedMessage {
	msg := &DatasetLoadedMessage{
		MessageID:    uuid.NewString(),
		Source:       source,
		State:        state,
		Customers:    customers,
		Transactions: transactions,
		Timestamp:    time.Now().UTC(),
	}
	if loadErr != nil {
		msg.Error = loadErr.Error()
	}
	return msg
}

func (m *DatasetLoadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetLoadedMessageFromJSON(data []byte) (*DatasetLoadedMessage, error) {
	var msg DatasetLoadedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
