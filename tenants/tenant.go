package tenants

import "time"

// Tenant is a business that signed up. Each tenant has one owner and is
// provisioned into one POS product at onboarding.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
