package order

import "time"

// Message is an admin note appended to an order. The list is append-only.
type Message struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}
