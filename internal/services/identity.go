package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidIdentityToken = errors.New("invalid identity token")
	ErrIdentityEmailMissing = errors.New("identity token has no email")
)

// IdentityConfig configures verification of federated identity tokens.
// PublicKeyPEM selects RS256; otherwise Secret selects HS256.
type IdentityConfig struct {
	ClientID     string
	Issuer       string
	PublicKeyPEM string
	Secret       string
}

// Identity is the verified subject of an identity token.
type Identity struct {
	Subject string
	Email   string
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// IdentityTokenVerifier checks identity tokens issued by the federated provider.
type IdentityTokenVerifier struct {
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

// NewIdentityTokenVerifier returns nil, nil when no verification key is configured.
func NewIdentityTokenVerifier(cfg IdentityConfig) (*IdentityTokenVerifier, error) {
	var (
		method string
		key    any
	)
	switch {
	case strings.TrimSpace(cfg.PublicKeyPEM) != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity public key: %w", err)
		}
		method, key = jwt.SigningMethodRS256.Alg(), pub
	case cfg.Secret != "":
		method, key = jwt.SigningMethodHS256.Alg(), []byte(cfg.Secret)
	default:
		return nil, nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{method}), jwt.WithExpirationRequired()}
	if cfg.ClientID != "" {
		opts = append(opts, jwt.WithAudience(cfg.ClientID))
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &IdentityTokenVerifier{
		parser: jwt.NewParser(opts...),
		keyFunc: func(*jwt.Token) (any, error) {
			return key, nil
		},
	}, nil
}

// Verify validates signature, expiry, audience and issuer of token.
func (v *IdentityTokenVerifier) Verify(token string) (Identity, error) {
	claims := &identityClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidIdentityToken
	}
	if claims.Subject == "" {
		return Identity{}, ErrInvalidIdentityToken
	}
	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return Identity{}, ErrIdentityEmailMissing
	}

	return Identity{Subject: claims.Subject, Email: email}, nil
}
