package domain

// SubscriptionPortador per-portador subscription (1:1 with portador).
type SubscriptionPortador struct {
	Record
	AdminID                string  `json:"admin_id"`
	PortadorID             string  `json:"portador_id"`
	Plan                   string  `json:"plan"`   // annual
	Status                 string  `json:"status"` // active | past_due | canceled
	ProviderCustomerID     *string `json:"provider_customer_id,omitempty"`
	ProviderSubscriptionID *string `json:"provider_subscription_id,omitempty"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	AutoRenew              bool    `json:"auto_renew"`
}

const (
	PlanAnnual = "annual"

	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)
