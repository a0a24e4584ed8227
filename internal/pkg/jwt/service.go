package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Inspector reads claims from bearer tokens issued by the remote API. The client
// never holds the signing key, so signatures are not verified here; the server
// remains the authority and answers 401 for anything it rejects.
type Inspector struct {
	parser *jwtlib.Parser
	now    func() time.Time
}

func NewInspector() *Inspector {
	return &Inspector{parser: jwtlib.NewParser(), now: time.Now}
}

// WithClock returns a copy of the inspector that reads the time from now.
func (i *Inspector) WithClock(now func() time.Time) *Inspector {
	c := *i
	c.now = now
	return &c
}

// ExpiresAt returns the exp claim. ok is false when the token has no expiry.
func (i *Inspector) ExpiresAt(token string) (exp time.Time, ok bool, err error) {
	var claims jwtlib.RegisteredClaims
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// Check returns nil for a usable token, ErrTokenExpired once exp has elapsed and
// ErrTokenInvalid for anything that does not parse. Tokens without exp are usable.
func (i *Inspector) Check(token string) error {
	exp, ok, err := i.ExpiresAt(token)
	if err != nil {
		return err
	}
	if ok && exp.Before(i.now()) {
		return ErrTokenExpired
	}
	return nil
}
