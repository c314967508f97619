package models

import "time"

// CustomerResponse is the customer record enriched with identity fields from
// the user directory. Name and Email stay empty when enrichment fails.
type CustomerResponse struct {
	CustomerID  int64      `json:"customer_id"`
	UserID      int64      `json:"user_id"`
	Status      string     `json:"status"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	DateOfBirth string     `json:"date_of_birth,omitempty"`
	Occupation  string     `json:"occupation"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// ToResponse maps the record. Identity fields are filled by the caller.
func (c *CustomerDetails) ToResponse(name, email string) CustomerResponse {
	resp := CustomerResponse{
		CustomerID:  c.ID,
		UserID:      c.UserID,
		Status:      c.Status,
		Name:        name,
		Email:       email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		Occupation:  c.Occupation,
		CreatedAt:   c.CreatedAt,
		ModifiedAt:  c.ModifiedAt,
	}
	if c.DateOfBirth != nil {
		resp.DateOfBirth = c.DateOfBirth.Format(dateLayout)
	}
	return resp
}
