package models

// MessageTimeFormat is the layout used when stamping outgoing messages.
// Existing data may carry other layouts (or none); conversation ordering
// therefore compares timestamps as strings, never as parsed times.
const MessageTimeFormat = "2006-01-02 15:04:05"

// Message is a direct message between two users.
type Message struct {
	ID        int    `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Counterpart returns the other party of the message relative to username,
// and false if username is on neither side.
func (m Message) Counterpart(username string) (string, bool) {
	switch username {
	case m.Sender:
		return m.Receiver, true
	case m.Receiver:
		return m.Sender, true
	default:
		return "", false
	}
}
