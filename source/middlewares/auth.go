package middlewares

import (
	"context"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey = contextKey("auth_user")

var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

var (
	ErrMissingToken   = errors.New("Token de autorização não fornecido")
	ErrMalformedToken = errors.New("Formato de token inválido")
	ErrInvalidToken   = errors.New("Token JWT inválido")
	ErrExpiredToken   = errors.New("Token JWT expirado")
)

// AuthUser is the identity carried by a bearer token.
type AuthUser struct {
	UserID     int64   `json:"user_id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	ClientID   *int64  `json:"client_id"`
	ClientName *string `json:"client_name"`
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == schemas.ROLE_ADMIN
}

// ScopedClientID returns the client a non-admin is confined to. Admins get
// requested back unchanged.
func (u AuthUser) ScopedClientID(requested *int64) *int64 {
	if u.IsAdmin() {
		return requested
	}
	if u.ClientID == nil {
		zero := int64(0)
		return &zero
	}
	return u.ClientID
}

// CanAccessClient reports whether the user may touch rows of clientID.
func (u AuthUser) CanAccessClient(clientID int64) bool {
	return u.IsAdmin() || (u.ClientID != nil && *u.ClientID == clientID)
}

type Claims struct {
	AuthUser
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, expiration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiration: expiration, now: time.Now}
}

func (t *TokenIssuer) Issue(user schemas.User) (string, error) {
	now := t.now()
	claims := Claims{
		AuthUser: AuthUser{
			UserID:     user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       user.Role,
			ClientID:   user.ClientID,
			ClientName: user.ClientName,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(raw string) (*AuthUser, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims.AuthUser, nil
}

// FromHeader extracts and validates the bearer token of an Authorization header.
func (t *TokenIssuer) FromHeader(header string) (*AuthUser, error) {
	if header == "" {
		return nil, ErrMissingToken
	}
	matches := bearerPattern.FindStringSubmatch(header)
	if matches == nil {
		return nil, ErrMalformedToken
	}
	return t.Parse(matches[1])
}

// Auth rejects requests without a valid bearer token with 401.
func Auth(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := issuer.FromHeader(r.Header.Get("Authorization"))
			if err != nil {
				message := err.Error()
				if errors.Is(err, ErrInvalidToken) {
					message = ErrInvalidToken.Error()
				}
				utils.SendResponse(w, http.StatusUnauthorized, message, nil, 0)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.SendResponse(w, http.StatusUnauthorized, ErrMissingToken.Error(), nil, 0)
			return
		}
		if !user.IsAdmin() {
			utils.SendResponse(w, http.StatusForbidden, "Acesso negado: privilégios de administrador necessários", nil, 0)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(UserContextKey).(AuthUser)
	return user, ok
}

// WithUser is used by handlers' tests to skip token parsing.
func WithUser(ctx context.Context, user AuthUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
