package models

import (
	"time"

	dtmodels "customer-service/internal/doctype/models"
)

// KycResponse exposes the stored reference only, never the content.
type KycResponse struct {
	KycID              int64                    `json:"kyc_id"`
	CustomerID         int64                    `json:"customer_id"`
	DocType            dtmodels.DocTypeResponse `json:"doc_type"`
	FilePath           string                   `json:"file_path"`
	DocRefNo           string                   `json:"doc_ref_no"`
	VerificationStatus string                   `json:"verification_status"`
	Remarks            string                   `json:"remarks,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	ModifiedAt         *time.Time               `json:"modified_at,omitempty"`
}

func (k *Kyc) ToResponse() KycResponse {
	resp := KycResponse{
		KycID:              k.ID,
		CustomerID:         k.CustomerID,
		FilePath:           k.FilePath,
		DocRefNo:           k.DocRefNo,
		VerificationStatus: k.VerificationStatus,
		Remarks:            k.Remarks,
		CreatedAt:          k.CreatedAt,
		ModifiedAt:         k.ModifiedAt,
	}
	if k.DocType != nil {
		resp.DocType = k.DocType.ToResponse()
	} else {
		resp.DocType = dtmodels.DocTypeResponse{DocTypeID: k.DocTypeID}
	}
	return resp
}
