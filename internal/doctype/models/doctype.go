package models

import "time"

// DocType is a kind of identity document a customer can submit.
type DocType struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// IsActive reports whether the type can still be referenced by new documents.
func (d *DocType) IsActive() bool {
	return d.DeletedAt == nil
}

// DocTypeResponse is the wire shape, also embedded in KYC responses.
type DocTypeResponse struct {
	DocTypeID   int64  `json:"doc_type_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (d *DocType) ToResponse() DocTypeResponse {
	return DocTypeResponse{
		DocTypeID:   d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}
