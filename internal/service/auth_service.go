// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogify/internal/auth"
	"blogify/internal/cache"
	"blogify/internal/mailer"
	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/observability"
	"blogify/internal/repository"
	"blogify/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const (
	// VerificationCodeTTL bounds how long an emailed code stays valid.
	VerificationCodeTTL = 24 * time.Hour
	// ResetTokenTTL bounds the exposure window of a reset link.
	ResetTokenTTL = time.Hour

	maxCodeAttempts = 5
)

var errInvalidCredentials = models.NewUnauthenticatedError("No user found for the provided credentials!")

// AuthService runs the credential lifecycle: signup, login, email
// verification and password reset.
type AuthService struct {
	users     repository.UserRepository
	mail      *mailer.Dispatcher
	cache     *cache.Cache
	clientURL string
	hashCost  int
	now       func() time.Time
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Token    string
	Password string
}

// NewAuthService wires the flow. mail may be nil, in which case nothing is
// sent. c holds the cached profiles that login, verification and reset make
// stale; it may be nil.
func NewAuthService(users repository.UserRepository, mail *mailer.Dispatcher, c *cache.Cache, clientURL string) *AuthService {
	return &AuthService{
		users:     users,
		mail:      mail,
		cache:     c,
		clientURL: strings.TrimRight(clientURL, "/"),
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Signup")
	defer func() {
		observability.RecordAuthEvent("signup", err)
		observability.EndSpan(span, err)
	}()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	// Best effort only; the unique index on email settles concurrent signups.
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateKeyError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashed),
		Photo:     strings.TrimSpace(in.Photo),
		LastLogin: s.now(),
		Likes:     []uint{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))

	if err := s.issueVerificationCode(ctx, user); err != nil {
		// The account exists; the user can ask for a new code.
		middleware.Logger.WarnContext(ctx, "failed to issue verification code",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()))
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Login")
	defer func() {
		observability.RecordAuthEvent("login", err)
		observability.EndSpan(span, err)
	}()

	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err = s.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	user.LastLogin = s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		return nil, err
	}
	s.cache.InvalidateProfile(ctx, user.ID)
	likes, err := s.users.LikedPostIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Likes = likes
	return user, nil
}

// CurrentUser resolves the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// RequestVerification replaces any pending code of an unverified user with a
// fresh one and mails it.
func (s *AuthService) RequestVerification(ctx context.Context, userID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.RequestVerification")
	defer func() {
		observability.RecordAuthEvent("verification_requested", err)
		observability.EndSpan(span, err)
	}()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return models.NewValidationError("Email is already verified")
	}
	return s.issueVerificationCode(ctx, user)
}

func (s *AuthService) issueVerificationCode(ctx context.Context, user *models.User) error {
	var code, digest string
	for attempt := 0; ; attempt++ {
		var err error
		code, err = auth.GenerateNumericCode(auth.VerificationCodeDigits)
		if err != nil {
			return models.NewInternalError(err)
		}
		digest = auth.HashSecret(code)

		inUse, err := s.users.VerificationCodeInUse(ctx, digest, user.ID)
		if err != nil {
			return err
		}
		if !inUse {
			break
		}
		if attempt+1 >= maxCodeAttempts {
			return models.NewInternalError(errors.New("could not allocate a unique verification code"))
		}
	}

	expires := s.now().Add(VerificationCodeTTL)
	if err := s.users.SetVerificationCode(ctx, user.ID, digest, expires); err != nil {
		return err
	}
	user.VerificationCodeHash = &digest
	user.VerificationCodeExpiresAt = &expires

	s.mail.Dispatch(ctx, mailer.VerificationEmail(user.Email, user.Name, code, "24 hours"))
	return nil
}

func (s *AuthService) ConfirmVerification(ctx context.Context, code string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.ConfirmVerification")
	defer func() {
		observability.RecordAuthEvent("verify_email", err)
		observability.EndSpan(span, err)
	}()

	code = auth.NormalizeCode(code)
	if code == "" {
		return nil, models.NewFieldError("verificationCode", "Verification code is required")
	}

	user, err = s.users.ConsumeVerificationCode(ctx, auth.HashSecret(code), s.now())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidOrExpiredCodeError()
	}

	s.cache.InvalidateProfile(ctx, user.ID)
	s.mail.Dispatch(ctx, mailer.WelcomeEmail(user.Email, user.Name))
	return user, nil
}

// RequestReset stores a fresh reset token for email, mails the reset link and
// returns the raw token.
func (s *AuthService) RequestReset(ctx context.Context, email string) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.RequestReset")
	defer func() {
		observability.RecordAuthEvent("reset_requested", err)
		observability.EndSpan(span, err)
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return "", models.NewFieldError("email", "email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewNotFoundMessage("User not found")
	}

	token, err = auth.GenerateOpaqueToken(auth.ResetTokenBytes)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, auth.HashSecret(token), s.now().Add(ResetTokenTTL)); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	s.mail.Dispatch(ctx, mailer.ResetEmail(user.Email, link, "1 hour"))
	return token, nil
}

func (s *AuthService) ConfirmReset(ctx context.Context, in ResetPasswordInput) (err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.ConfirmReset")
	defer func() {
		observability.RecordAuthEvent("reset_password", err)
		observability.EndSpan(span, err)
	}()

	if err := validation.ValidatePassword(in.Password); err != nil {
		return err
	}
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return models.NewInvalidOrExpiredTokenError()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user, err := s.users.ConsumeResetToken(ctx, auth.HashSecret(token), s.now(), string(hashed))
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewInvalidOrExpiredTokenError()
	}

	s.cache.InvalidateProfile(ctx, user.ID)
	s.mail.Dispatch(ctx, mailer.ResetSuccessEmail(user.Email, user.Name))
	return nil
}
