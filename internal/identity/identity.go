// Package identity verifies bearer tokens issued by the external identity
// provider and carries the resulting owner through request contexts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"

	"financas/internal/core"
)

const (
	maxCacheTTL     = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified token says about its bearer.
type Identity struct {
	OwnerID   string
	Name      string
	Email     string
	Picture   string
	ExpiresAt time.Time
}

// Profile converts the claims into a profile record.
func (i Identity) Profile() core.Profile {
	return core.Profile{
		UID:     i.OwnerID,
		Name:    i.Name,
		Email:   i.Email,
		Picture: i.Picture,
	}
}

// Verifier checks HS256 tokens and remembers the ones it accepted.
type Verifier struct {
	secret []byte
	issuer string
	cache  *gocache.Cache
	now    func() time.Time
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		cache:  gocache.New(maxCacheTTL, cleanupInterval),
		now:    time.Now,
	}
}

// Verify returns the identity behind token. The "sub" claim is the owner id.
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	if cached, ok := v.cache.Get(token); ok {
		id := cached.(Identity)
		if id.ExpiresAt.IsZero() || v.now().Before(id.ExpiresAt) {
			return id, nil
		}
		v.cache.Delete(token)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: 'sub' claim missing or not a string", ErrInvalidToken)
	}

	id := Identity{
		OwnerID: sub,
		Name:    stringClaim(claims, "name"),
		Email:   stringClaim(claims, "email"),
		Picture: stringClaim(claims, "picture"),
	}
	ttl := maxCacheTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
		if left := exp.Time.Sub(v.now()); left < ttl {
			ttl = left
		}
	}
	if ttl > 0 {
		v.cache.Set(token, id, ttl)
	}
	return id, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// OwnerID returns the owner of the request, or "" when unauthenticated.
func OwnerID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.OwnerID
}
