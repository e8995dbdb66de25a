// Package magiclink issues and checks the signed tokens embedded in
// magic sign-in links. The token binds the session's secret fingerprint
// to the signing-in user, so a link only answers the challenge it was
// minted for.
package magiclink

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Audience scopes tokens to this suite; anything else signed with
	// the same secret is rejected.
	Audience = "doorcode/magic-link"

	// DefaultTTL keeps links short-lived. The challenge session itself
	// expires sooner; this is a backstop.
	DefaultTTL = 15 * time.Minute

	// queryParam is the URL query parameter carrying the token.
	queryParam = "token"
)

var (
	// ErrInvalidToken reports a token that failed signature, audience,
	// subject or expiry checks.
	ErrInvalidToken = errors.New("magiclink: invalid token")
)

type linkClaims struct {
	jwt.RegisteredClaims

	// Fingerprint of the session secret this link answers.
	Fingerprint string `json:"fpr"`
}

// Issuer mints and verifies magic-link tokens with a shared HMAC secret.
type Issuer struct {
	Secret  []byte
	BaseURL string        // landing page the token is appended to
	TTL     time.Duration // zero means DefaultTTL

	Now func() time.Time // test hook, nil means time.Now
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Issuer) ttl() time.Duration {
	if i.TTL > 0 {
		return i.TTL
	}
	return DefaultTTL
}

// Issue signs a token for username bound to the given secret
// fingerprint and returns both the bare token and the full link URL.
func (i *Issuer) Issue(username, fingerprint string) (token, link string, err error) {
	now := i.now()

	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl())),
		},
		Fingerprint: fingerprint,
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", "", fmt.Errorf("magiclink: failed to sign token: %w", err)
	}

	u, err := url.Parse(i.BaseURL)
	if err != nil {
		return "", "", fmt.Errorf("magiclink: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set(queryParam, token)
	u.RawQuery = q.Encode()

	return token, u.String(), nil
}

// Verify checks a token for the given username and returns the secret
// fingerprint it was bound to.
func (i *Issuer) Verify(token, username string) (string, error) {
	var claims linkClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return i.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithSubject(username),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Fingerprint == "" {
		return "", ErrInvalidToken
	}

	return claims.Fingerprint, nil
}
