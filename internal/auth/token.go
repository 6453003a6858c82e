// Package auth issues and verifies session tokens and generates the one-time
// secrets used by the verification and password reset flows.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"blogify/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the session cookie shared with the browser client.
	CookieName = "token"
	// SessionTTL bounds the lifetime of a session token.
	SessionTTL = 7 * 24 * time.Hour

	blacklistPrefix = "blacklist:"
)

// Claims are the registered JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Session is a verified session token resolved to its owner.
type Session struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// Options configures a TokenService.
type Options struct {
	Secret       string
	Issuer       string
	Audience     string
	TTL          time.Duration
	SecureCookie bool
	Logger       *slog.Logger
}

// TokenService signs, verifies and revokes HS256 session tokens.
type TokenService struct {
	secret       []byte
	issuer       string
	audience     string
	ttl          time.Duration
	secureCookie bool
	redis        *redis.Client
	logger       *slog.Logger
	now          func() time.Time
}

// NewTokenService builds a TokenService. rdb may be nil, in which case
// revocation is not tracked.
func NewTokenService(opts Options, rdb *redis.Client) *TokenService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = SessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		secret:       []byte(opts.Secret),
		issuer:       opts.Issuer,
		audience:     opts.Audience,
		ttl:          ttl,
		secureCookie: opts.SecureCookie,
		redis:        rdb,
		logger:       logger,
		now:          time.Now,
	}
}

// Sign creates a signed token for userID without touching the response.
func (s *TokenService) Sign(userID uint) (string, *Session, error) {
	if len(s.secret) == 0 {
		return "", nil, errors.New("JWT secret not configured")
	}

	now := s.now()
	session := &Session{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        session.TokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, session, nil
}

// Issue signs a token for userID and always sets it as the session cookie.
// The raw token is returned so the login response can echo it.
func (s *TokenService) Issue(c *fiber.Ctx, userID uint) (string, error) {
	token, session, err := s.Sign(userID)
	if err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(s.ttl.Seconds()),
		HTTPOnly: true,
		Secure:   s.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return token, nil
}

// ClearCookie expires the session cookie on the client.
func (s *TokenService) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Verify checks the signature, algorithm, issuer, audience, expiry and
// revocation status of token. Every failure is an INVALID_TOKEN AppError.
func (s *TokenService) Verify(ctx context.Context, token string) (*Session, error) {
	session, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		revoked, err := s.redis.Exists(ctx, blacklistPrefix+session.TokenID).Result()
		if err != nil {
			s.logger.WarnContext(ctx, "token blacklist lookup failed",
				slog.String("error", err.Error()))
		} else if revoked > 0 {
			return nil, models.NewInvalidTokenError(errors.New("token has been revoked"))
		}
	}

	return session, nil
}

// Revoke blacklists the token's ID until it would have expired anyway.
// Invalid or already expired tokens need no revocation.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.redis == nil || token == "" {
		return nil
	}
	session, err := s.parse(token)
	if err != nil {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, blacklistPrefix+session.TokenID, "1", ttl).Err()
}

func (s *TokenService) parse(token string) (*Session, error) {
	if token == "" {
		return nil, models.NewInvalidTokenError(errors.New("token is empty"))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, models.NewInvalidTokenError(err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, models.NewInvalidTokenError(errors.New("invalid subject claim"))
	}
	if claims.ID == "" {
		return nil, models.NewInvalidTokenError(errors.New("missing token id"))
	}

	return &Session{
		UserID:    uint(userID),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TokenFromRequest extracts the session token from the cookie, falling back
// to an "Authorization: Bearer" header.
func TokenFromRequest(c *fiber.Ctx) string {
	if tokens := TokensFromRequest(c); len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

// TokensFromRequest returns every session token the request carries, cookie
// first and bearer header second. A stale cookie must not shadow a valid
// bearer token, so callers try each in order.
func TokensFromRequest(c *fiber.Ctx) []string {
	var tokens []string
	if token := c.Cookies(CookieName); token != "" {
		tokens = append(tokens, token)
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" && (len(tokens) == 0 || tokens[0] != token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
