package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cucumber/godog"
)

const (
	customerKey = "customer"
	documentKey = "document"

	// one byte over the replacement limit
	oversizedReplacement = 250*1024 + 1
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	DELETE(path string) error
	SendMultipart(method, path string, fields map[string]string, fileName string, content []byte) error
	StatusCode() int
	Body() []byte
	ResponseID(field string) (int64, error)
	Remember(name string, id int64)
	Recall(name string) (int64, error)
}

// RegisterSteps registers kyc-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &kycSteps{tc: tc}

	ctx.Step(`^I upload "([^"]*)" as a "([^"]*)" document for the customer$`, steps.upload)
	ctx.Step(`^I fetch the document$`, steps.fetch)
	ctx.Step(`^I set the document verification status to "([^"]*)"$`, steps.setStatus)
	ctx.Step(`^I replace the document file with an oversized "([^"]*)"$`, steps.replaceOversized)
	ctx.Step(`^I delete the document$`, steps.delete)
	ctx.Step(`^I list the customer's documents$`, steps.listForCustomer)
	ctx.Step(`^the response should list (\d+) documents?$`, steps.shouldList)
}

type kycSteps struct {
	tc TestContext
}

func (s *kycSteps) upload(_ context.Context, fileName, docType string) error {
	customerID, err := s.tc.Recall(customerKey)
	if err != nil {
		return err
	}
	docTypeID, err := s.docTypeID(docType)
	if err != nil {
		return err
	}
	fields := map[string]string{
		"customer_id": strconv.FormatInt(customerID, 10),
		"doc_type_id": strconv.FormatInt(docTypeID, 10),
	}
	if err := s.tc.SendMultipart(http.MethodPost, "/kyc", fields, fileName, []byte("%PDF-1.4 e2e")); err != nil {
		return err
	}
	if s.tc.StatusCode() == http.StatusCreated {
		id, err := s.tc.ResponseID("kyc_id")
		if err != nil {
			return err
		}
		s.tc.Remember(documentKey, id)
	}
	return nil
}

func (s *kycSteps) docTypeID(name string) (int64, error) {
	if err := s.tc.GET("/doc-types"); err != nil {
		return 0, err
	}
	var types []struct {
		DocTypeID int64  `json:"doc_type_id"`
		Name      string `json:"name"`
	}
	if err := json.Unmarshal(s.tc.Body(), &types); err != nil {
		return 0, fmt.Errorf("decode doc types: %w", err)
	}
	for _, t := range types {
		if t.Name == name {
			return t.DocTypeID, nil
		}
	}
	return 0, fmt.Errorf("doc type %q not offered", name)
}

func (s *kycSteps) documentPath() (string, error) {
	id, err := s.tc.Recall(documentKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/kyc/%d", id), nil
}

func (s *kycSteps) fetch(context.Context) error {
	path, err := s.documentPath()
	if err != nil {
		return err
	}
	return s.tc.GET(path)
}

func (s *kycSteps) setStatus(_ context.Context, status string) error {
	path, err := s.documentPath()
	if err != nil {
		return err
	}
	return s.tc.SendMultipart(http.MethodPatch, path, map[string]string{"verification_status": status}, "", nil)
}

func (s *kycSteps) replaceOversized(_ context.Context, fileName string) error {
	path, err := s.documentPath()
	if err != nil {
		return err
	}
	return s.tc.SendMultipart(http.MethodPatch, path, nil, fileName, bytes.Repeat([]byte("x"), oversizedReplacement))
}

func (s *kycSteps) delete(context.Context) error {
	path, err := s.documentPath()
	if err != nil {
		return err
	}
	return s.tc.DELETE(path)
}

func (s *kycSteps) listForCustomer(context.Context) error {
	id, err := s.tc.Recall(customerKey)
	if err != nil {
		return err
	}
	return s.tc.GET(fmt.Sprintf("/customers/%d/kyc", id))
}

func (s *kycSteps) shouldList(_ context.Context, n int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.tc.Body(), &items); err != nil {
		return fmt.Errorf("response is not a JSON array: %s", s.tc.Body())
	}
	if len(items) != n {
		return fmt.Errorf("expected %d documents, got %d", n, len(items))
	}
	return nil
}
