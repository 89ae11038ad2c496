package domain

// Client is a customer invoices are addressed to.
type Client struct {
	ClientID string `json:"id"`
	OwnerID  string `json:"ownerId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timestamps
}
