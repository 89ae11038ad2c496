package models

// Client is a row of the clients table.
type Client struct {
	ClientID string `db:"client_id"`
	OwnerID  string `db:"owner_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	Address  string `db:"address"`
	Timestamps
}
