package dto

type SubscriptionStatus struct {
	PerformerID      int64  `json:"performer_id"`
	SubscriptionType string `json:"subscription_type"`
	Status           string `json:"status"`
	Effective        bool   `json:"effective"`
	ExpiredAt        string `json:"expired_at"`
	NextRecurringAt  string `json:"next_recurring_at"`
}
