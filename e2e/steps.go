package e2e

import (
	"github.com/cucumber/godog"

	"customer-service/e2e/steps/common"
	"customer-service/e2e/steps/customer"
	"customer-service/e2e/steps/kyc"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	customer.RegisterSteps(ctx, tc)
	kyc.RegisterSteps(ctx, tc)
}
