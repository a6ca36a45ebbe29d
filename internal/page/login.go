package page

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/webtest-io/webtest/internal/config"
)

// LoginState is the outcome of a login-state check. It distinguishes a
// confirmed state from an indeterminate one caused by a driver error, so
// tests can assert on the precise outcome instead of a collapsed boolean.
type LoginState int

// Login states
const (
	LoginUnknown LoginState = iota
	LoggedIn
	LoggedOut
)

// String implements fmt.Stringer.
func (s LoginState) String() string {
	switch s {
	case LoggedIn:
		return "logged-in"
	case LoggedOut:
		return "logged-out"
	}
	return "unknown"
}

// dashboardWaitMs is how long a successful login may take to redirect to
// the dashboard before the check reports logged-out.
const dashboardWaitMs = 5000

// LoginPage is the page object for the login screen.
type LoginPage struct {
	page *Page

	EmailInput         Target
	PasswordInput      Target
	LoginButton        Target
	RememberMeCheckbox Target
	ForgotPasswordLink Target
	ErrorBanner        Target
	SuccessBanner      Target
}

// NewLoginPage creates a login page object bound to a page.
func NewLoginPage(p *Page) *LoginPage {
	return &LoginPage{
		page:               p,
		EmailInput:         TestID("email-input"),
		PasswordInput:      TestID("password-input"),
		LoginButton:        TestID("login-button"),
		RememberMeCheckbox: TestID("remember-me"),
		ForgotPasswordLink: TestID("forgot-password"),
		ErrorBanner:        Sel(".error-message"),
		SuccessBanner:      Sel(".success-message"),
	}
}

// Navigate opens the login page.
func (l *LoginPage) Navigate() error {
	return l.page.Navigate("/login")
}

// Login submits the login form with the given credentials.
func (l *LoginPage) Login(email, password string, rememberMe bool) error {
	if err := l.page.Fill(l.EmailInput, email); err != nil {
		return err
	}
	if err := l.page.Fill(l.PasswordInput, password); err != nil {
		return err
	}
	if rememberMe {
		if err := l.page.Click(l.RememberMeCheckbox); err != nil {
			return err
		}
	}
	if err := l.page.Click(l.LoginButton); err != nil {
		return err
	}
	return l.page.WaitNetworkIdle()
}

// LoginAsRole logs in with the credentials configured for a role. An unknown
// role fails before any browser interaction.
func (l *LoginPage) LoginAsRole(settings *config.Settings, role string) error {
	creds, err := settings.UserCredentials(role)
	if err != nil {
		return err
	}
	return l.Login(creds.Email, creds.Password, false)
}

// ForgotPassword runs the forgot-password flow for an email address.
func (l *LoginPage) ForgotPassword(email string) error {
	if err := l.page.Click(l.ForgotPasswordLink); err != nil {
		return err
	}
	if _, err := l.page.WaitVisible(TestID("forgot-password-email")); err != nil {
		return err
	}
	if err := l.page.Fill(TestID("forgot-password-email"), email); err != nil {
		return err
	}
	return l.page.Click(TestID("forgot-password-submit"))
}

// ErrorMessage returns the visible error banner text, or "" when no error
// is shown.
func (l *LoginPage) ErrorMessage() (string, error) {
	return l.bannerText(l.ErrorBanner)
}

// SuccessMessage returns the visible success banner text, or "" when none
// is shown.
func (l *LoginPage) SuccessMessage() (string, error) {
	return l.bannerText(l.SuccessBanner)
}

func (l *LoginPage) bannerText(banner Target) (string, error) {
	visible, err := l.page.Visible(banner)
	if err != nil {
		return "", err
	}
	if !visible {
		return "", nil
	}
	return l.page.Text(banner)
}

// State reports whether the session is logged in, defined operationally as
// the page reaching a dashboard URL within five seconds. A missing redirect
// yields LoggedOut; a driver failure yields LoginUnknown together with the
// error that caused it.
func (l *LoginPage) State() (LoginState, error) {
	err := l.page.WaitURL("**/dashboard", CallOptions{TimeoutMs: dashboardWaitMs})
	if err == nil {
		return LoggedIn, nil
	}
	return classifyStateErr(err, l.page.Raw().IsClosed())
}

// classifyStateErr maps a failed dashboard wait to a login state. Only the
// driver's typed timeout on a live page counts as a confirmed missing
// redirect; every other failure is indeterminate.
func classifyStateErr(err error, pageClosed bool) (LoginState, error) {
	if !pageClosed && errors.Is(err, playwright.ErrTimeout) {
		return LoggedOut, nil
	}
	return LoginUnknown, fmt.Errorf("login state indeterminate: %w", err)
}

// FormValidation reports which login form elements are present.
type FormValidation struct {
	EmailInput         bool
	PasswordInput      bool
	LoginButton        bool
	RememberMeCheckbox bool
	ForgotPasswordLink bool
}

// Complete reports whether every expected form element is visible.
func (v FormValidation) Complete() bool {
	return v.EmailInput && v.PasswordInput && v.LoginButton &&
		v.RememberMeCheckbox && v.ForgotPasswordLink
}

// ValidateForm checks that the login form elements are all present.
func (l *LoginPage) ValidateForm() (FormValidation, error) {
	var v FormValidation
	checks := []struct {
		target Target
		dst    *bool
	}{
		{l.EmailInput, &v.EmailInput},
		{l.PasswordInput, &v.PasswordInput},
		{l.LoginButton, &v.LoginButton},
		{l.RememberMeCheckbox, &v.RememberMeCheckbox},
		{l.ForgotPasswordLink, &v.ForgotPasswordLink},
	}
	for _, c := range checks {
		visible, err := l.page.Visible(c.target)
		if err != nil {
			return v, err
		}
		*c.dst = visible
	}
	return v, nil
}
