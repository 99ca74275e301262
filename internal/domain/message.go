package domain

// EmailMessage is a templated message handed to the mail transport.
type EmailMessage struct {
	Template string
	To       string
	Headers  map[string]string
	Locals   map[string]any
}
