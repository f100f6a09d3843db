package cli

import (
	"context"
	"errors"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/session"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/validation"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/common"
)

// Register prompts for username, email and password and creates the account.
// On success the user is sent to the login view.
func (a *App) Register(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}
	a.nav.Navigate(router.Register)

	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := validation.RegisterForm{Username: username, Email: email, Password: string(password)}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}

	res := a.store.Session.Register(ctx, api.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if !res.OK() {
		a.println(res.Message)
		return nil
	}

	a.store.Session.ResetRegistration()
	a.println("Registration successful! Please log in.")
	a.nav.Navigate(router.Login)
	return nil
}

// Login prompts for credentials, stores the session and opens the notes view
// of the first workspace.
func (a *App) Login(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}
	a.nav.Navigate(router.Login)

	email, err := GetSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := validation.LoginForm{Email: email, Password: string(password)}
	if err := a.validate.Struct(form); err != nil {
		return a.formError(err)
	}

	res := a.store.Session.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
	if !res.OK() {
		a.logger.Info(ctx, "login failed", "error", res.Err)
		a.println(res.Message)
		return nil
	}
	a.printf("Welcome, %s!\n", res.Value.Username)

	a.loadTenants(ctx)
	a.enter(router.Notes)
	return nil
}

// Logout resets every slice, clears the stored credentials and returns to
// the login view.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	if err := a.store.LogoutAndReset(ctx); err != nil {
		return err
	}
	a.nav.Navigate(router.Login)
	a.println("Logged out.")
	return nil
}

// WhoAmI prints the cached user and when the access token expires.
func (a *App) WhoAmI(_ context.Context, _ []string) error {
	if !a.enter(router.Settings) {
		return nil
	}
	snap := a.sessions.Snapshot()
	if snap.User != nil {
		a.printf("%s <%s> (id %s)\n", snap.User.Username, snap.User.Email, snap.User.ID)
	}
	if exp, ok := session.TokenExpiry(snap.AccessToken); ok {
		left := time.Until(exp).Round(time.Second)
		if left > 0 {
			a.printf("Access token expires at %s (in %s)\n", exp.Local().Format(time.RFC1123), left)
		} else {
			a.printf("Access token expired at %s; it will be refreshed on the next request\n", exp.Local().Format(time.RFC1123))
		}
	}
	return nil
}

// formError prints every failed form rule. It returns nil so the REPL does
// not print the joined message a second time.
func (a *App) formError(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		a.println(fe.Message)
	}
	return nil
}
