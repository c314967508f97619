package models

import (
	"path/filepath"
	"strings"
	"time"

	dtmodels "customer-service/internal/doctype/models"
)

const (
	// StatusPending is the verification status of every new submission.
	StatusPending = "Pending"

	// MaxUpdateFileSize caps replacement uploads.
	MaxUpdateFileSize = 250 * 1024

	pdfExtension = ".pdf"
)

// Kyc is one submitted identity document. DocType is populated on reads.
type Kyc struct {
	ID                 int64
	CustomerID         int64
	DocTypeID          int64
	FilePath           string
	DocChecksum        string
	DocRefNo           string
	VerificationStatus string
	Remarks            string
	CreatedAt          time.Time
	ModifiedAt         *time.Time
	DeletedAt          *time.Time

	DocType *dtmodels.DocType
}

// File is an uploaded document.
type File struct {
	Name    string
	Content []byte
}

// IsPDF checks the extension case-insensitively.
func (f *File) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(f.Name), pdfExtension)
}

func (f *File) Size() int {
	return len(f.Content)
}

// NewKyc builds a pending submission for a stored document.
func NewKyc(customerID, docTypeID int64, filePath, checksum, docRefNo string, now time.Time) *Kyc {
	return &Kyc{
		CustomerID:         customerID,
		DocTypeID:          docTypeID,
		FilePath:           filePath,
		DocChecksum:        checksum,
		DocRefNo:           docRefNo,
		VerificationStatus: StatusPending,
		CreatedAt:          now,
	}
}

func (k *Kyc) IsActive() bool {
	return k.DeletedAt == nil
}

// HasFile reports whether the row counts toward the one-document-per-type
// rule.
func (k *Kyc) HasFile() bool {
	return k.FilePath != ""
}

func (k *Kyc) MarkDeleted(now time.Time) {
	k.DeletedAt = &now
}

// AddKycRequest is a new submission.
type AddKycRequest struct {
	CustomerID int64
	DocTypeID  int64
	File       *File
}

// Patch lists the fields an update may change. Nil means "leave as is".
type Patch struct {
	Remarks            *string
	CustomerID         *int64
	DocTypeID          *int64
	File               *File
	VerificationStatus *string
}

// ListFilter narrows ListActive. An empty VerificationStatus matches all.
type ListFilter struct {
	VerificationStatus string
}
