package models

import "time"

// StatusPending is the status every new customer starts in. Later values are
// free-form and set by reviewers through Update.
const StatusPending = "Pending"

// CustomerDetails is the customer record linked to one external user.
type CustomerDetails struct {
	ID          int64
	UserID      int64
	Status      string
	PhoneNumber string
	Address     string
	DateOfBirth *time.Time
	Occupation  string

	CreatedBy  int64
	CreatedAt  time.Time
	ModifiedBy *int64
	ModifiedAt *time.Time
	DeletedBy  *int64
	DeletedAt  *time.Time
}

// Profile carries the optional profile fields supplied at creation.
type Profile struct {
	PhoneNumber string
	Address     string
	DateOfBirth *time.Time
	Occupation  string
}

// Patch lists the fields an update may change. Nil means "leave as is".
type Patch struct {
	PhoneNumber *string
	Address     *string
	DateOfBirth *time.Time
	Occupation  *string
	Status      *string
}

// NewCustomer builds a pending customer created on behalf of userID.
func NewCustomer(userID int64, p Profile, now time.Time) *CustomerDetails {
	return &CustomerDetails{
		UserID:      userID,
		Status:      StatusPending,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		DateOfBirth: p.DateOfBirth,
		Occupation:  p.Occupation,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
}

func (c *CustomerDetails) IsActive() bool {
	return c.DeletedAt == nil
}

// ApplyPatch copies the supplied fields and stamps the modification. The
// record's own user is recorded as the modifier.
func (c *CustomerDetails) ApplyPatch(p Patch, now time.Time) {
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		c.DateOfBirth = &dob
	}
	if p.Occupation != nil {
		c.Occupation = *p.Occupation
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	modifiedBy := c.UserID
	c.ModifiedBy = &modifiedBy
	c.ModifiedAt = &now
}

// MarkDeleted soft-deletes the record.
func (c *CustomerDetails) MarkDeleted(now time.Time) {
	deletedBy := c.UserID
	c.DeletedBy = &deletedBy
	c.DeletedAt = &now
}

// ListFilter narrows ListActive. When RestrictToUsers is set only customers of
// UserIDs are returned, and an empty UserIDs matches nothing.
type ListFilter struct {
	RestrictToUsers bool
	UserIDs         []int64
}
