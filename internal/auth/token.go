package auth

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const (
	// TokenLifetime is how long a token is cached after issuance. The
	// service hands out tokens valid for ten minutes.
	TokenLifetime = 570 * time.Second

	// RefreshMargin is the minimum remaining lifetime a token must have
	// before it may be attached to a request.
	RefreshMargin = 30 * time.Second
)

// AccessToken is a decoded token response with the time it stops being
// used. It is never modified after creation.
type AccessToken struct {
	Token     *oauth2.Token
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func newAccessToken(token *oauth2.Token, issuedAt time.Time) *AccessToken {
	return &AccessToken{
		Token:     token,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(TokenLifetime),
	}
}

// Fresh reports whether the token is still more than RefreshMargin away
// from expiry at now.
func (t *AccessToken) Fresh(now time.Time) bool {
	if t == nil || t.Token == nil {
		return false
	}
	return t.ExpiresAt.Sub(now) > RefreshMargin
}

// Bearer returns the Authorization header value for the token
func (t *AccessToken) Bearer() string {
	return "Bearer " + t.Token.AccessToken
}

// Field returns a raw field of the token response, e.g. "scope"
func (t *AccessToken) Field(key string) string {
	v := t.Token.Extra(key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
