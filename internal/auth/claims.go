package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"clubhouse-backend/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity assertion issued by the external provider.
type Claims struct {
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Name       string `json:"name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) profile() storage.ExternalProfile {
	return storage.ExternalProfile{
		ID:              c.Subject,
		Email:           c.Email,
		DisplayName:     c.Name,
		FirstName:       c.GivenName,
		LastName:        c.FamilyName,
		ProfileImageURL: c.Picture,
	}
}

type ClaimsConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// ClaimsProvider trusts HS256 bearer assertions from an external identity
// provider and mirrors the asserted profile into the users table.
type ClaimsProvider struct {
	users  storage.UserStore
	secret []byte
	parser *jwt.Parser
}

var _ Provider = (*ClaimsProvider)(nil)

func NewClaimsProvider(users storage.UserStore, cfg ClaimsConfig) *ClaimsProvider {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &ClaimsProvider{
		users:  users,
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
	}
}

func (p *ClaimsProvider) Name() string {
	return ModeClaims
}

func (p *ClaimsProvider) Authenticate(r *http.Request) (string, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", ErrUnauthenticated
	}

	claims, err := p.Verify(raw)
	if err != nil {
		return "", ErrUnauthenticated
	}

	profile := claims.profile()
	_, err = p.users.UpsertUser(r.Context(), profile)
	if errors.Is(err, storage.ErrEmailTaken) {
		// Another subject already holds this email; keep the member without one.
		profile.Email = ""
		_, err = p.users.UpsertUser(r.Context(), profile)
	}
	if err != nil {
		return "", fmt.Errorf("sync user from claims: %w", err)
	}
	return claims.Subject, nil
}

// Verify checks the signature and the registered claims of an assertion.
func (p *ClaimsProvider) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := p.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// SignClaims produces an assertion the way the identity provider would. It
// backs the token CLI command and tests.
func SignClaims(secret string, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
