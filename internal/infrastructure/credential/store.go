package credential

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Store holds the bearer token in one named slot. Reads are open to any
// component; only the session store writes or clears it.
type Store interface {
	// Token returns "" when the slot is empty.
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	Close() error
}

const slotName = "token"

// SlotKey scopes the token slot to the origin of the API base URL, so two
// deployments never read each other's credential.
func SlotKey(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("api base url %q has no origin", baseURL)
	}
	return strings.ToLower(u.Scheme+"://"+u.Host) + "|" + slotName, nil
}
