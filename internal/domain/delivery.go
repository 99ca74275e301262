package domain

import "time"

// Delivery records that a templated email was handed to the transport.
// The ticket value is deliberately never stored.
type Delivery struct {
	DeliveryID      string    `json:"id" dynamodbav:"delivery_id"`
	AccountID       string    `json:"account_id" dynamodbav:"account_id"`
	Template        string    `json:"template" dynamodbav:"template"`
	Destination     string    `json:"destination" dynamodbav:"destination"`
	TicketExpiresAt int64     `json:"ticket_expires_at" dynamodbav:"ticket_expires_at"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
}
