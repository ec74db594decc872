package dto

// CreateClientRequest defines the data needed to create a client.
type CreateClientRequest struct {
	LastName  string `json:"nom" binding:"required"`
	FirstName string `json:"prenom"`
	Phone     string `json:"telephone"`
	Email     string `json:"email" binding:"omitempty,email"`
	Address   string `json:"adresse"`
	Notes     string `json:"notes"`
}

// UpdateClientRequest defines the fields allowed to change on a client.
type UpdateClientRequest struct {
	LastName  *string `json:"nom"`
	FirstName *string `json:"prenom"`
	Phone     *string `json:"telephone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Address   *string `json:"adresse"`
	Notes     *string `json:"notes"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Search string `form:"search"`
	PageParams
}
