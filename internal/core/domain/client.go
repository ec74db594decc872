package domain

// Client is a reseller customer buying subscriptions.
type Client struct {
	ClientID  string `json:"id"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Phone     string `json:"telephone"`
	Email     string `json:"email"`
	Address   string `json:"adresse"`
	Notes     string `json:"notes"`
	AuditFields
}

// FullName joins first and last name for display.
func (c Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}
