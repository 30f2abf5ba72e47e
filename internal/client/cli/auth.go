package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for a username and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. You can log in now.")
	return nil
}

// Login prompts for credentials and starts a session, replacing any
// current one.
func (a *App) Login(ctx context.Context, _ []string) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return common.NewValidationError("Wrong username or password.")
		}
		return err
	}

	a.resetSession()
	fmt.Fprintf(a.out, "Welcome, %s!\n", userName)
	a.refreshToday(ctx)
	return nil
}

// Logout stops all audio and forgets the session.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.controller.Stop()
	a.background.Stop()

	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.resetSession()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) resetSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.complete = false
	a.sentences = nil
}
