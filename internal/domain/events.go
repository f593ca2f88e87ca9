package domain

// Event exchange and routing keys for subscription lifecycle events.
const (
	EventsExchange = "subscriptions.events"

	RoutingKeySubscriptionCreated   = "subscription.created"
	RoutingKeyCycleAdvanced         = "subscription.cycle.advanced"
	RoutingKeySubscriptionCancelled = "subscription.cancelled"
	RoutingKeyReminderDue           = "subscription.reminder.due"
)

type SubscriptionCreatedEvent struct {
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
	ServiceName    string `json:"service_name"`
	NextDueDate    string `json:"next_due_date,omitempty"`
}

type CycleAdvancedEvent struct {
	SubscriptionID  string `json:"subscription_id"`
	UserID          string `json:"user_id"`
	PreviousDueDate string `json:"previous_due_date"`
	NewDueDate      string `json:"new_due_date"`
}

type SubscriptionCancelledEvent struct {
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
}

type ReminderDueEvent struct {
	SubscriptionID string  `json:"subscription_id"`
	UserID         string  `json:"user_id"`
	ServiceName    string  `json:"service_name"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	DueDate        string  `json:"due_date"`
	DaysUntilDue   int     `json:"days_until_due"`
}
