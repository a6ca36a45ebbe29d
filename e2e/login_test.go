//go:build e2e
// +build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtest-io/webtest/internal/page"
	"github.com/webtest-io/webtest/internal/report"
	"github.com/webtest-io/webtest/internal/testdata"
)

// TestLoginPageLoaded verifies the login page renders its full form.
//
//	Scenario: Login page loads successfully
//	  Given I navigate to the login page
//	  Then every login form element is visible
func TestLoginPageLoaded(t *testing.T) {
	f := newFixture(t, report.Meta{
		TCID:     "TC-LOGIN-001",
		Severity: "critical",
	})

	require.NoError(t, f.login.Navigate())

	form, err := f.login.ValidateForm()
	require.NoError(t, err)
	assert.True(t, form.EmailInput, "email input is not visible")
	assert.True(t, form.PasswordInput, "password input is not visible")
	assert.True(t, form.LoginButton, "login button is not visible")
	assert.True(t, form.RememberMeCheckbox, "remember-me checkbox is not visible")
	assert.True(t, form.ForgotPasswordLink, "forgot-password link is not visible")
	assert.True(t, form.Complete(), "login form is incomplete")
}

// TestLoginWithValidCredentials verifies the standard user can sign in.
//
//	Scenario: Login with valid credentials
//	  Given I am on the login page
//	  When I log in as the standard user
//	  Then I reach the dashboard within five seconds
func TestLoginWithValidCredentials(t *testing.T) {
	f := newFixture(t, report.Meta{
		TCID:     "TC-LOGIN-002",
		Severity: "blocker",
	})

	loginAs(t, f, "standard")
}

// TestLoginWithInvalidCredentials verifies an unregistered user is rejected
// with a visible error.
func TestLoginWithInvalidCredentials(t *testing.T) {
	f := newFixture(t, report.Meta{TCID: "TC-LOGIN-003"})

	require.NoError(t, f.login.Navigate())

	// When I log in with an unregistered email
	email := testdata.RandomEmail()
	f.collector.Step("login with unregistered email %s", email)
	require.NoError(t, f.login.Login(email, "wrong_password", false))

	// Then I stay logged out
	state, err := f.login.State()
	require.NoError(t, err, "login state check errored")
	assert.Equal(t, page.LoggedOut, state, "unregistered user appears logged in")

	// And an error message is shown
	errorMessage, err := f.login.ErrorMessage()
	require.NoError(t, err)
	assert.NotEmpty(t, errorMessage, "no error message displayed for invalid credentials")
}

// TestLoginAsUnknownRole verifies the role lookup fails before any browser
// interaction happens.
func TestLoginAsUnknownRole(t *testing.T) {
	f := newFixture(t, report.Meta{TCID: "TC-LOGIN-004"})

	err := f.login.LoginAsRole(settings, "unknown-role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown-role", "error does not name the unknown role")

	// The page never navigated: the failure happened in the credential lookup.
	assert.Equal(t, "about:blank", f.page.URL())
}

// TestForgotPasswordFlow verifies the forgot-password form confirms the
// reset email.
func TestForgotPasswordFlow(t *testing.T) {
	f := newFixture(t, report.Meta{TCID: "TC-LOGIN-005"})

	require.NoError(t, f.login.Navigate())
	require.NoError(t, f.login.ForgotPassword(testdata.RandomEmail()))

	successMessage, err := f.login.SuccessMessage()
	require.NoError(t, err)
	require.NotEmpty(t, successMessage, "no success message displayed for forgot password")
	assert.Contains(t, successMessage, "email", "unexpected success message: %s", successMessage)
}

// TestRememberMeKeepsSession verifies a second page in the same context
// stays authenticated after logging in with remember-me checked.
func TestRememberMeKeepsSession(t *testing.T) {
	f := newFixture(t, report.Meta{TCID: "TC-LOGIN-006"})

	require.NoError(t, f.login.Navigate())

	creds, err := settings.UserCredentials("standard")
	require.NoError(t, err)
	require.NoError(t, f.login.Login(creds.Email, creds.Password, true))

	state, err := f.login.State()
	require.NoError(t, err)
	require.Equal(t, page.LoggedIn, state, "login with remember-me failed")

	// A fresh page in the same context shares cookies and must reach the
	// dashboard without logging in again.
	newPW, err := f.session.Page().Context().NewPage()
	require.NoError(t, err)
	defer newPW.Close()

	newPage := page.New(newPW, settings)
	require.NoError(t, newPage.Navigate("/dashboard"))

	newLogin := page.NewLoginPage(newPage)
	state, err = newLogin.State()
	require.NoError(t, err)
	assert.Equal(t, page.LoggedIn, state, "session was not remembered on a new page")
}

// TestAdminLogin verifies the admin role's credentials work.
func TestAdminLogin(t *testing.T) {
	f := newFixture(t, report.Meta{TCID: "TC-LOGIN-007", Severity: "critical"})

	loginAs(t, f, "admin")
}
