package customer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cucumber/godog"
)

const customerKey = "customer"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	DELETE(path string) error
	SendJSON(method, path string, body any) error
	StatusCode() int
	ResponseID(field string) (int64, error)
	Remember(name string, id int64)
	Recall(name string) (int64, error)
}

// RegisterSteps registers customer-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &customerSteps{tc: tc}

	ctx.Step(`^user (\d+) has no active customer$`, steps.ensureNoActiveCustomer)
	ctx.Step(`^I register user (\d+) as a customer$`, steps.register)
	ctx.Step(`^I register user (\d+) as a customer with occupation "([^"]*)"$`, steps.registerWithOccupation)
	ctx.Step(`^user (\d+) is a registered customer$`, steps.registered)
	ctx.Step(`^I fetch the customer$`, steps.fetch)
	ctx.Step(`^I look up the customer for user (\d+)$`, steps.lookup)
	ctx.Step(`^I change the customer status to "([^"]*)"$`, steps.changeStatus)
	ctx.Step(`^I delete the customer$`, steps.delete)
	ctx.Step(`^I list customers named like "([^"]*)"$`, steps.listByName)
}

type customerSteps struct {
	tc TestContext
}

// ensureNoActiveCustomer soft-deletes whatever an earlier run left behind.
func (s *customerSteps) ensureNoActiveCustomer(_ context.Context, userID int64) error {
	if err := s.tc.GET(fmt.Sprintf("/customers/by-user/%d", userID)); err != nil {
		return err
	}
	switch s.tc.StatusCode() {
	case http.StatusNotFound:
		return nil
	case http.StatusOK:
		id, err := s.tc.ResponseID("customer_id")
		if err != nil {
			return err
		}
		if err := s.tc.DELETE(fmt.Sprintf("/customers/%d", id)); err != nil {
			return err
		}
		if s.tc.StatusCode() != http.StatusOK {
			return fmt.Errorf("cleanup of customer %d returned %d", id, s.tc.StatusCode())
		}
		return nil
	default:
		return fmt.Errorf("lookup for user %d returned %d", userID, s.tc.StatusCode())
	}
}

func (s *customerSteps) register(ctx context.Context, userID int64) error {
	return s.registerWithOccupation(ctx, userID, "")
}

func (s *customerSteps) registerWithOccupation(_ context.Context, userID int64, occupation string) error {
	body := map[string]any{"user_id": userID}
	if occupation != "" {
		body["occupation"] = occupation
	}
	if err := s.tc.SendJSON(http.MethodPost, "/customers", body); err != nil {
		return err
	}
	if s.tc.StatusCode() == http.StatusCreated {
		id, err := s.tc.ResponseID("customer_id")
		if err != nil {
			return err
		}
		s.tc.Remember(customerKey, id)
	}
	return nil
}

func (s *customerSteps) registered(ctx context.Context, userID int64) error {
	if err := s.ensureNoActiveCustomer(ctx, userID); err != nil {
		return err
	}
	if err := s.register(ctx, userID); err != nil {
		return err
	}
	if s.tc.StatusCode() != http.StatusCreated {
		return fmt.Errorf("registering user %d returned %d", userID, s.tc.StatusCode())
	}
	return nil
}

func (s *customerSteps) fetch(context.Context) error {
	id, err := s.tc.Recall(customerKey)
	if err != nil {
		return err
	}
	return s.tc.GET(fmt.Sprintf("/customers/%d", id))
}

func (s *customerSteps) lookup(_ context.Context, userID int64) error {
	return s.tc.GET(fmt.Sprintf("/customers/by-user/%d", userID))
}

func (s *customerSteps) changeStatus(_ context.Context, status string) error {
	id, err := s.tc.Recall(customerKey)
	if err != nil {
		return err
	}
	return s.tc.SendJSON(http.MethodPatch, fmt.Sprintf("/customers/%d", id), map[string]any{"status": status})
}

func (s *customerSteps) delete(context.Context) error {
	id, err := s.tc.Recall(customerKey)
	if err != nil {
		return err
	}
	return s.tc.DELETE(fmt.Sprintf("/customers/%d", id))
}

func (s *customerSteps) listByName(_ context.Context, fragment string) error {
	return s.tc.GET("/customers?name=" + url.QueryEscape(fragment))
}
