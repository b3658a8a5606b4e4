package email

import "context"

// Message is one outbound transactional email.
type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Result carries what the provider reported back.
type Result struct {
	ProviderMessageID string
}

// Sender delivers a message synchronously. Implementations never retry.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
