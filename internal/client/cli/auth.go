package cli

import (
	"context"
	"fmt"
	"os"
)

// Registrar creates an account and leaves the user at the login prompt.
func (a *App) Registrar(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Correo electrónico", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.remote.Register(ctx, email, string(password)); err != nil {
		fmt.Fprintf(a.out, "No se pudo registrar: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Cuenta creada. Usa 'login' para entrar.")
	return nil
}

// Login authenticates, persists the refresh token for the next run, and
// attaches the collection subscriptions.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Correo electrónico", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.remote.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintf(a.out, "No se pudo iniciar sesión: %v\n", err)
		return err
	}

	a.persistSession(ctx)
	a.subscribeAll(ctx)

	fmt.Fprintln(a.out, "Sesión iniciada.")
	return nil
}

// Logout drops the session, removes the persisted token, and rebuilds the
// collections so a later login starts clean.
func (a *App) Logout(ctx context.Context) error {
	a.closeCollections()
	a.remote.Logout(ctx)
	if err := os.Remove(a.config.TokenFile); err != nil && !os.IsNotExist(err) {
		a.logger.Warn(ctx, "could not remove session file", "error", err)
	}
	a.buildCollections()
	fmt.Fprintln(a.out, "Sesión cerrada.")
	return nil
}

// resumeSession restores the previous session from the persisted refresh
// token, if one exists and is still valid.
func (a *App) resumeSession(ctx context.Context) {
	b, err := os.ReadFile(a.config.TokenFile)
	if err != nil {
		return
	}

	if err := a.remote.Resume(ctx, string(b)); err != nil {
		a.logger.Warn(ctx, "stored session expired", "error", err)
		_ = os.Remove(a.config.TokenFile)
		return
	}

	a.persistSession(ctx)
	a.subscribeAll(ctx)
	fmt.Fprintln(a.out, "Sesión restaurada.")
}

// persistSession writes the current refresh token with owner-only access.
func (a *App) persistSession(ctx context.Context) {
	tok := a.remote.RefreshToken()
	if tok == "" {
		return
	}
	if err := os.WriteFile(a.config.TokenFile, []byte(tok), 0o600); err != nil {
		a.logger.Warn(ctx, "could not persist session", "error", err)
	}
}
