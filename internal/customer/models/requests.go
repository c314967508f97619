package models

import (
	"strings"
	"time"

	dErrors "customer-service/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// CreateCustomerRequest is the body of POST /customers.
type CreateCustomerRequest struct {
	UserID      int64  `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	Occupation  string `json:"occupation"`

	dateOfBirth *time.Time
}

// Validate trims input and parses the date of birth.
func (r *CreateCustomerRequest) Validate() error {
	if r.UserID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.Occupation = strings.TrimSpace(r.Occupation)
	dob, err := parseDate(r.DateOfBirth)
	if err != nil {
		return err
	}
	r.dateOfBirth = dob
	return nil
}

// Profile returns the validated profile fields.
func (r *CreateCustomerRequest) Profile() Profile {
	return Profile{
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		DateOfBirth: r.dateOfBirth,
		Occupation:  r.Occupation,
	}
}

// UpdateCustomerRequest is the body of PATCH /customers/{id}. Omitted fields
// are left unchanged.
type UpdateCustomerRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
	Occupation  *string `json:"occupation"`
	Status      *string `json:"status"`

	patch Patch
}

func (r *UpdateCustomerRequest) Validate() error {
	r.patch = Patch{
		PhoneNumber: trimmed(r.PhoneNumber),
		Address:     trimmed(r.Address),
		Occupation:  trimmed(r.Occupation),
		Status:      trimmed(r.Status),
	}
	if r.patch.Status != nil && *r.patch.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status must not be empty")
	}
	if r.DateOfBirth != nil {
		dob, err := parseDate(*r.DateOfBirth)
		if err != nil {
			return err
		}
		r.patch.DateOfBirth = dob
	}
	return nil
}

// Patch returns the validated patch.
func (r *UpdateCustomerRequest) Patch() Patch {
	return r.patch
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "date_of_birth must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
