// Package verify talks to the remote human-verification service.
// The two modes are distinct types so a missing secret cannot silently turn
// checks off somewhere deep in a handler: the caller wires either Disabled
// or a Turnstile client at startup.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier answers whether a caller-supplied token proves a human.
// A returned error means the check could not be completed; callers must
// treat that as a failed verification (fail closed), never as success.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Disabled is the open/dev mode used when no verification secret is
// configured: every token passes. Wiring it is an explicit, logged decision.
type Disabled struct{}

// Verify implements Verifier, always approving.
func (Disabled) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	return true, nil
}

const (
	siteverifyURL  = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	requestTimeout = 10 * time.Second
)

// Turnstile verifies tokens against Cloudflare's siteverify endpoint.
type Turnstile struct {
	secret   string
	endpoint string
	client   *http.Client
}

// NewTurnstile returns a Turnstile verifier using the given account secret.
func NewTurnstile(secret string) *Turnstile {
	return NewTurnstileWithEndpoint(secret, siteverifyURL)
}

// NewTurnstileWithEndpoint overrides the verification endpoint; tests point
// it at a local server.
func NewTurnstileWithEndpoint(secret, endpoint string) *Turnstile {
	return &Turnstile{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// Verify submits the secret, token, and caller IP. Only a well-formed
// response with "success": true approves; any transport failure, non-2xx
// status, or unexpected body shape is reported as an error.
func (t *Turnstile) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{
		"secret":   {t.secret},
		"response": {token},
		"remoteip": {remoteIP},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("siteverify status %d", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("siteverify response: %w", err)
	}
	return body.Success, nil
}
