package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/model"
)

// Issuer is set on every token this package signs
const Issuer = "qadesk"

// JWTClaims represents the claims for a qadesk session token. Subject holds
// the principal.
type JWTClaims struct {
	jwt.RegisteredClaims
	// Authentication method used to obtain this token
	AuthMethod Method `json:"auth_method"`
}

// Principal returns the caller identified by the token
func (c *JWTClaims) Principal() model.Principal {
	return model.Principal(c.Subject)
}

type TokenResponse struct {
	Token     string          `json:"token"`
	Principal model.Principal `json:"principal"`
	ExpiresAt int             `json:"expires_at"`
}

// JWTManager handles JWT token operations
type JWTManager struct {
	privateKey    ed25519.PrivateKey
	publicKey     ed25519.PublicKey
	tokenDuration time.Duration
}

// NewJWTManager builds a manager from the hex-encoded Ed25519 seed in cfg.
// Without a configured seed a random one is used, so tokens do not survive a
// restart.
func NewJWTManager(cfg *config.Config) *JWTManager {
	var seed []byte
	if cfg.JWTPrivateKey == "" {
		log.Printf("No JWT private key configured, using an ephemeral signing key")
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			panic(fmt.Sprintf("failed to generate JWT seed: %v", err))
		}
	} else {
		var err error
		seed, err = hex.DecodeString(cfg.JWTPrivateKey)
		if err != nil {
			panic(fmt.Sprintf("JWTPrivateKey must be a valid hex-encoded string: %v", err))
		}
	}

	if len(seed) != ed25519.SeedSize {
		panic(fmt.Sprintf("JWTPrivateKey seed must be exactly %d bytes for Ed25519, got %d bytes", ed25519.SeedSize, len(seed)))
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	duration := cfg.JWTTokenTTL
	if duration <= 0 {
		duration = time.Hour
	}

	return &JWTManager{
		privateKey:    privateKey,
		publicKey:     publicKey,
		tokenDuration: duration,
	}
}

// GenerateTokenResponse signs claims, filling in the registered claims that
// are unset.
func (j *JWTManager) GenerateTokenResponse(_ context.Context, claims JWTClaims) (*TokenResponse, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidToken)
	}
	if !claims.AuthMethod.IsValid() {
		return nil, ErrUnsupportedAuthMethod
	}

	now := time.Now()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenDuration))
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now)
	}
	if claims.Issuer == "" {
		claims.Issuer = Issuer
	}

	token := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, claims)
	tokenString, err := token.SignedString(j.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		Token:     tokenString,
		Principal: claims.Principal(),
		ExpiresAt: int(claims.ExpiresAt.Unix()),
	}, nil
}

// ValidateToken validates a session token and returns the claims
func (j *JWTManager) ValidateToken(_ context.Context, tokenString string) (*JWTClaims, error) {
	// This also validates expiry
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(_ *jwt.Token) (interface{}, error) { return j.publicKey, nil },
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
