package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	dtmodels "customer-service/internal/doctype/models"
	"customer-service/internal/kyc/handler/mocks"
	"customer-service/internal/kyc/models"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type KycHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestKycHandlerSuite(t *testing.T) {
	suite.Run(t, new(KycHandlerSuite))
}

func (s *KycHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), WithMaxUploadBytes(64<<10)).Register(s.router)
}

func sampleKyc() *models.KycResponse {
	return &models.KycResponse{
		KycID:              5,
		CustomerID:         11,
		DocType:            dtmodels.DocTypeResponse{DocTypeID: 2, Name: "Passport"},
		FilePath:           "/uploads/kyc/abc_id.pdf",
		DocRefNo:           "ref-1",
		VerificationStatus: models.StatusPending,
		CreatedAt:          time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func pdfPart(name string, content []byte) testutil.FormFile {
	return testutil.FormFile{Field: "file", Name: name, Content: content}
}

func (s *KycHandlerSuite) TestCreate() {
	s.Run("created", func() {
		s.service.EXPECT().AddKyc(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.AddKycRequest) (*models.KycResponse, error) {
				s.Equal(int64(11), req.CustomerID)
				s.Equal(int64(2), req.DocTypeID)
				s.Require().NotNil(req.File)
				s.Equal("id.pdf", req.File.Name)
				s.Equal([]byte("%PDF-1.4"), req.File.Content)
				return sampleKyc(), nil
			})

		req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/kyc",
			map[string]string{"customer_id": "11", "doc_type_id": "2"}, pdfPart("id.pdf", []byte("%PDF-1.4")))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		body := testutil.UnmarshalResponse[models.KycResponse](s.T(), rr)
		s.Equal(int64(5), body.KycID)
		s.Equal("Passport", body.DocType.Name)
	})

	s.Run("missing file is passed through for validation", func() {
		s.service.EXPECT().AddKyc(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.AddKycRequest) (*models.KycResponse, error) {
				s.Nil(req.File)
				return nil, dErrors.New(dErrors.CodeValidation, "file is required")
			})

		req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/kyc",
			map[string]string{"customer_id": "11", "doc_type_id": "2"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed customer id", func() {
		req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/kyc",
			map[string]string{"customer_id": "x", "doc_type_id": "2"}, pdfPart("id.pdf", []byte("a")))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("not multipart", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc", map[string]any{"customer_id": 11}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("body over the upload limit", func() {
		req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/kyc",
			map[string]string{"customer_id": "11", "doc_type_id": "2"}, pdfPart("big.pdf", bytes.Repeat([]byte("x"), 128<<10)))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("customer not found", func() {
		s.service.EXPECT().AddKyc(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeNotFound, "customer not found"))

		req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/kyc",
			map[string]string{"customer_id": "99", "doc_type_id": "2"}, pdfPart("id.pdf", []byte("a")))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *KycHandlerSuite) TestGet() {
	s.Run("found", func() {
		s.service.EXPECT().GetByID(gomock.Any(), int64(5)).Return(sampleKyc(), nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/kyc/5"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "doc_ref_no", "ref-1")
	})

	s.Run("malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/kyc/-1"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *KycHandlerSuite) TestListByCustomer() {
	s.Run("documents", func() {
		s.service.EXPECT().GetByCustomerID(gomock.Any(), int64(11)).Return([]models.KycResponse{*sampleKyc()}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/customers/11/kyc"))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[[]models.KycResponse](s.T(), rr)
		s.Len(*body, 1)
	})

	s.Run("none on file", func() {
		s.service.EXPECT().GetByCustomerID(gomock.Any(), int64(12)).Return(nil, dErrors.New(dErrors.CodeNotFound, "no documents found for customer"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/customers/12/kyc"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *KycHandlerSuite) TestUpdate() {
	s.Run("only sent fields are patched", func() {
		s.service.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, patch models.Patch) (*models.KycResponse, error) {
				s.Require().NotNil(patch.Remarks)
				s.Equal("", *patch.Remarks)
				s.Require().NotNil(patch.VerificationStatus)
				s.Equal("Verified", *patch.VerificationStatus)
				s.Nil(patch.CustomerID)
				s.Nil(patch.DocTypeID)
				s.Nil(patch.File)
				resp := sampleKyc()
				resp.VerificationStatus = "Verified"
				return resp, nil
			})

		req := testutil.NewMultipartRequest(s.T(), http.MethodPatch, "/kyc/5",
			map[string]string{"remarks": "", "verification_status": " Verified "})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "verification_status", "Verified")
	})

	s.Run("replacement file and reassignment", func() {
		s.service.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, patch models.Patch) (*models.KycResponse, error) {
				s.Require().NotNil(patch.CustomerID)
				s.Equal(int64(12), *patch.CustomerID)
				s.Require().NotNil(patch.File)
				s.Equal("new.pdf", patch.File.Name)
				return sampleKyc(), nil
			})

		req := testutil.NewMultipartRequest(s.T(), http.MethodPatch, "/kyc/5",
			map[string]string{"customer_id": "12"}, pdfPart("new.pdf", []byte("b")))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("empty status rejected", func() {
		req := testutil.NewMultipartRequest(s.T(), http.MethodPatch, "/kyc/5",
			map[string]string{"verification_status": "  "})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed doc type id", func() {
		req := testutil.NewMultipartRequest(s.T(), http.MethodPatch, "/kyc/5",
			map[string]string{"doc_type_id": "two"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *KycHandlerSuite) TestDelete() {
	s.service.EXPECT().SoftDelete(gomock.Any(), int64(5)).Return(sampleKyc(), nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/kyc/5"))
	testutil.AssertStatusOK(s.T(), rr)
}

func (s *KycHandlerSuite) TestList() {
	s.service.EXPECT().ListPaged(gomock.Any(), 1, 20, "Pending").
		Return(paging.NewResult([]models.KycResponse{*sampleKyc()}, paging.Clamp(1, 20), 1), nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/kyc?page_size=20&verification_status=Pending"))

	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[paging.Result[models.KycResponse]](s.T(), rr)
	s.Equal(1, body.TotalItems)
	s.Len(body.Items, 1)
}
