package e2e

import (
	"testing"

	"github.com/adyen/loginsuite/internal/scenarios"
	"github.com/adyen/loginsuite/internal/suite"
)

// Feature: Login functionality
//
//	As a shop customer
//	I want to log in with my account
//	So that I can browse the inventory

func TestSuccessfulLogin(t *testing.T) {
	suite.Run(t, env, scenarios.SuccessfulLogin)
}

func TestWrongPasswordLogin(t *testing.T) {
	suite.Run(t, env, scenarios.WrongPasswordLogin)
}

func TestLockedOutUser(t *testing.T) {
	suite.Run(t, env, scenarios.LockedOut)
}

func TestEmptyFields(t *testing.T) {
	suite.Run(t, env, scenarios.EmptyFields)
}

func TestPerformanceGlitchUser(t *testing.T) {
	suite.Run(t, env, scenarios.PerformanceGlitch)
}

func TestLoginPageElements(t *testing.T) {
	suite.Run(t, env, scenarios.PageElements)
}
