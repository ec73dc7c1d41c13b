package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/repository"
	"reviewhub.app/reviewhub/internal/validation"
	"reviewhub.app/reviewhub/pkg/apperror"
)

type AuthService interface {
	Signup(ctx context.Context, input dto.SignupRequest) (*dto.SignupResponse, error)
	ObtainToken(ctx context.Context, input dto.TokenRequest) (*dto.TokenResponse, error)
}

type authService struct {
	repo       repository.UserRepository
	mailer     Mailer
	rdb        *redis.Client
	secret     string
	tokenTTL   time.Duration
	rateWindow time.Duration
}

func NewAuthService(repo repository.UserRepository, mailer Mailer, rdb *redis.Client, rateWindow time.Duration) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:       repo,
		mailer:     mailer,
		rdb:        rdb,
		secret:     secret,
		tokenTTL:   ttl,
		rateWindow: rateWindow,
	}
}

// Signup registers a user without a password. The confirmation code proving
// email ownership is delivered out-of-band; only its hash is persisted.
func (s *authService) Signup(ctx context.Context, input dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, input.Email, "signup", s.rateWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, s.rateLimited(ctx, input.Email, "signup")
	}

	if err := s.ensureUserUnique(ctx, input.Email, input.Username); err != nil {
		return nil, err
	}

	code, hash, err := issueConfirmationCode()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:             input.Username,
		Email:                input.Email,
		Role:                 model.RoleUser,
		ConfirmationCodeHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmationCode(ctx, input.Email, code); err != nil {
		return nil, fmt.Errorf("failed to deliver confirmation code: %w", err)
	}

	return &dto.SignupResponse{
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

// ObtainToken exchanges a confirmation code for a signed access token.
// Unknown username is 404, wrong code is 400.
func (s *authService) ObtainToken(ctx context.Context, input dto.TokenRequest) (*dto.TokenResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, input.Username, "token", s.rateWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, s.rateLimited(ctx, input.Username, "token")
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", apperror.ErrNotFound, input.Username)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCodeHash), []byte(input.ConfirmationCode)); err != nil {
		return nil, fmt.Errorf("%w: incorrect confirmation code", apperror.ErrInvalidInput)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	// A successful exchange releases the throttle for the next attempt.
	if err := ClearRateLimit(ctx, s.rdb, input.Username, "token"); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{Token: token}, nil
}

// rateLimited builds the 429 error, surfacing the remaining lockout window
// when redis can report it.
func (s *authService) rateLimited(ctx context.Context, client, action string) error {
	if ttl, err := GetRateLimitTTL(ctx, s.rdb, client, action); err == nil && ttl > 0 {
		return fmt.Errorf("%w: retry in %s", apperror.ErrRateLimitExceeded, ttl.Round(time.Second))
	}
	return fmt.Errorf("%w: too many %s attempts", apperror.ErrRateLimitExceeded, action)
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) ensureUserUnique(ctx context.Context, email, username string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email already registered", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username already taken", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func generateConfirmationCode() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// issueConfirmationCode returns a fresh code along with its bcrypt hash. The
// plaintext goes to the mailer, the hash to the user row.
func issueConfirmationCode() (string, string, error) {
	code, err := generateConfirmationCode()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash confirmation code: %w", err)
	}

	return code, string(hash), nil
}
