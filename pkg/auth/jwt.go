package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthenticated covers every token that is missing, malformed, expired or revoked.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// Claims holds the typed JWT payload. RegisteredClaims.ID carries the token id (jti).
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenRecord is what a TokenStore remembers about an issued token.
type TokenRecord struct {
	ID        string
	UserID    uint
	Name      string
	ExpiresAt time.Time
}

// TokenStore tracks issued tokens so they can be revoked before they expire.
type TokenStore interface {
	Save(ctx context.Context, rec TokenRecord) error
	Active(ctx context.Context, tokenID string, userID uint) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// Tokens issues, resolves and revokes bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	store  TokenStore
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, store TokenStore) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

// Issue signs a new token for userID and records it in the store.
func (t *Tokens) Issue(ctx context.Context, userID uint, name string) (string, error) {
	now := t.now()
	rec := TokenRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		ExpiresAt: now.Add(t.ttl),
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	if err := t.store.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("auth: save token: %w", err)
	}
	return signed, nil
}

// Resolve validates raw and returns the identity it belongs to.
func (t *Tokens) Resolve(ctx context.Context, raw string) (Identity, error) {
	claims, err := t.parse(raw)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	ok, err := t.store.Active(ctx, claims.ID, claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: look up token: %w", err)
	}
	if !ok {
		return Identity{}, ErrUnauthenticated
	}

	return Identity{UserID: claims.UserID, TokenID: claims.ID}, nil
}

// Revoke forgets the token behind id. Other tokens of the same user stay valid.
func (t *Tokens) Revoke(ctx context.Context, id Identity) error {
	if err := t.store.Revoke(ctx, id.TokenID); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

func (t *Tokens) parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
