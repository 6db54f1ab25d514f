package cli

import (
	"context"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates the account.
// The new session is stored right away.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	uid, err := track(ctx, a, a.authSlot, "Registering", func(ctx context.Context) (int64, error) {
		return a.auth.Register(ctx, name, email, string(password))
	})
	if err != nil {
		return err
	}

	a.printf("Welcome, %s! (user %d)\n", name, uid)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	uid, err := track(ctx, a, a.authSlot, "Signing in", func(ctx context.Context) (int64, error) {
		return a.auth.Login(ctx, email, string(password))
	})
	if err != nil {
		return err
	}

	a.printf("Login successful (user %d)\n", uid)
	return nil
}

// Logout ends the session locally. The confirmation comes from the logout
// event, like a forced logout does.
func (a *App) Logout(ctx context.Context) error {
	_, err := track(ctx, a, a.ackSlot, "Signing out", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.auth.Logout(ctx)
	})
	return err
}

// Profile switches the active profile.
func (a *App) Profile(ctx context.Context, args []string) error {
	id, err := parseID(args, "profile <id>")
	if err != nil {
		a.println(err.Error())
		return err
	}

	if _, err := track(ctx, a, a.ackSlot, "Switching profile", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.auth.SelectProfile(ctx, id)
	}); err != nil {
		return err
	}

	a.printf("Active profile: %d\n", id)
	return nil
}

// WhoAmI prints the session state.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		a.println("Not logged in")
		return nil
	}
	id, err := a.sessions.ResolvedProfileID(ctx)
	if err != nil {
		a.println("Error:", err.Error())
		return err
	}
	a.printf("Logged in as profile %d\n", id)
	return nil
}
