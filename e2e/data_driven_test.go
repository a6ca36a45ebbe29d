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

// loginCase is one row of the data-driven login matrix.
type loginCase struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userFixture is the shape of testdata/test_users.json.
type userFixture struct {
	InvalidUsers []loginCase `json:"invalid_users"`
}

// TestLoginWithConfiguredRoles runs the login flow for every role the
// configuration knows about.
func TestLoginWithConfiguredRoles(t *testing.T) {
	for role := range settings.Credentials {
		role := role
		t.Run(role, func(t *testing.T) {
			f := newFixture(t, report.Meta{TCID: "TC-DATA-001"})
			loginAs(t, f, role)
		})
	}
}

// TestLoginRejectsInvalidUsers runs the login flow for every invalid user in
// the fixture file and expects each one to be rejected with an error message.
func TestLoginRejectsInvalidUsers(t *testing.T) {
	var fix userFixture
	require.NoError(t, testdata.LoadJSON("testdata/test_users.json", &fix))
	require.NotEmpty(t, fix.InvalidUsers, "fixture file has no invalid users")

	for _, tc := range fix.InvalidUsers {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			f := newFixture(t, report.Meta{TCID: "TC-DATA-002"})

			require.NoError(t, f.login.Navigate())

			f.collector.Step("login with %s (%s)", tc.Name, tc.Email)
			require.NoError(t, f.login.Login(tc.Email, tc.Password, false))

			state, err := f.login.State()
			require.NoError(t, err, "login state check errored")
			assert.Equal(t, page.LoggedOut, state, "invalid user %q appears logged in", tc.Name)

			errorMessage, err := f.login.ErrorMessage()
			require.NoError(t, err)
			assert.NotEmpty(t, errorMessage, "no error message displayed for %q", tc.Name)
		})
	}
}

// TestLoginWithGeneratedRegistrations feeds freshly generated registrations
// through the login form; none of them exist, so all must be rejected.
func TestLoginWithGeneratedRegistrations(t *testing.T) {
	for i := 0; i < 3; i++ {
		reg := testdata.NewRegistration()
		t.Run(reg.Email, func(t *testing.T) {
			f := newFixture(t, report.Meta{TCID: "TC-DATA-003"})

			require.NoError(t, f.login.Navigate())

			f.collector.Step("login with generated registration %s", reg.Email)
			require.NoError(t, f.login.Login(reg.Email, reg.Password, false))

			state, err := f.login.State()
			require.NoError(t, err, "login state check errored")
			assert.Equal(t, page.LoggedOut, state, "generated user %s appears logged in", reg.Email)
		})
	}
}
