package provider

import "context"

// Subscriber is the provider-side identity record for a recipient.
type Subscriber struct {
	SubscriberID string
	Email        string
	Name         string
}

// TriggerRequest is one workflow trigger for one subscriber.
type TriggerRequest struct {
	EventName string
	To        Subscriber
	Payload   map[string]any
}

// TriggerResponse stores provider call metadata for audit and persistence.
type TriggerResponse struct {
	TransactionID string
	StatusCode    int
	Body          string
}

// Notifier is the outbound notification delivery port.
type Notifier interface {
	Identify(ctx context.Context, subscriber Subscriber) error
	Trigger(ctx context.Context, req TriggerRequest) (*TriggerResponse, error)
}
