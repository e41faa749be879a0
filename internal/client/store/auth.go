package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ferreadmin/internal/api"
	"ferreadmin/internal/common"
)

// Register creates an account on the server.
func (r *Remote) Register(ctx context.Context, email, password string) error {
	body, err := json.Marshal(api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return r.doJSON(ctx, http.MethodPost, "/auth/register", body, nil)
}

// Login authenticates and stores the token pair for subsequent requests.
// The password is never persisted anywhere on the client.
func (r *Remote) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	var tokens api.TokenPair
	if err := r.doJSON(ctx, http.MethodPost, "/auth/login", body, &tokens); err != nil {
		return err
	}
	r.setTokens(tokens)
	return nil
}

// Logout revokes the refresh token on the server, then drops the session
// tokens. Revocation is best effort: an unreachable server still ends the
// local session.
func (r *Remote) Logout(ctx context.Context) {
	r.mu.Lock()
	rt := r.refreshToken
	r.mu.Unlock()

	if rt != "" {
		body, err := json.Marshal(api.RefreshRequest{RefreshToken: rt})
		if err == nil {
			if err := r.doJSON(ctx, http.MethodPost, "/auth/logout", body, nil); err != nil {
				r.logger.Warn(ctx, "revoke refresh token", "error", err)
			}
		}
	}

	r.setTokens(api.TokenPair{})
}

// LoggedIn reports whether a session is active.
func (r *Remote) LoggedIn() bool {
	return r.currentAccessToken() != ""
}

// RefreshToken returns the current refresh token so the CLI can persist it
// across runs (file mode 0600).
func (r *Remote) RefreshToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshToken
}

// Resume restores a session from a persisted refresh token.
func (r *Remote) Resume(ctx context.Context, refreshToken string) error {
	r.mu.Lock()
	r.refreshToken = refreshToken
	r.mu.Unlock()
	return r.refresh(ctx)
}

func (r *Remote) setTokens(tokens api.TokenPair) {
	r.mu.Lock()
	r.accessToken = tokens.AccessToken
	r.refreshToken = tokens.RefreshToken
	r.mu.Unlock()
}

// refresh exchanges the refresh token for a new pair. Called once per
// request on an expired access token (see doJSON).
func (r *Remote) refresh(ctx context.Context) error {
	r.mu.Lock()
	rt := r.refreshToken
	r.mu.Unlock()
	if rt == "" {
		return common.ErrorUnauthorized
	}

	body, err := json.Marshal(api.RefreshRequest{RefreshToken: rt})
	if err != nil {
		return err
	}

	status, respBody, err := r.roundTrip(ctx, http.MethodPost, "/auth/refresh", body)
	if err != nil {
		if isNetworkError(err) {
			return common.ErrorOffline
		}
		return err
	}
	if status != http.StatusOK {
		return decodeAPIError(status, respBody)
	}

	var tokens api.TokenPair
	if err := json.Unmarshal(respBody, &tokens); err != nil {
		return fmt.Errorf("decode token pair: %w", err)
	}
	r.setTokens(tokens)
	return nil
}
