package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/amirdashti/darchin-backend/pkg/auth"
	"github.com/amirdashti/darchin-backend/pkg/config"
	"github.com/amirdashti/darchin-backend/pkg/db"
	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/security"
)

const otpLength = 5

var (
	// ErrPhoneAlreadyRegistered rejects a second registration for a phone.
	ErrPhoneAlreadyRegistered = pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")

	// ErrInvalidCredentials hides whether the phone or the password was wrong.
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid phone or password")

	// ErrInvalidOTP covers wrong, expired and never-issued codes alike.
	ErrInvalidOTP = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
)

// RegisterInput carries the data collected before OTP confirmation.
type RegisterInput struct {
	Name     string
	Phone    string
	Password string
}

// AuthResult is returned on successful login or verified registration.
type AuthResult struct {
	Token string
	User  *models.User
}

// Service implements the phone-first auth flows: two-step OTP registration,
// password login, blacklist logout and OTP password reset.
type Service interface {
	RegisterStart(ctx context.Context, input RegisterInput) error
	RegisterVerify(ctx context.Context, phone, code string) (*AuthResult, error)
	Login(ctx context.Context, phone, password string) (*AuthResult, error)
	Logout(ctx context.Context, jti string, remaining time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	ForgotPassword(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, phone, code, newPassword string) error
}

type service struct {
	repo  Repository
	store Store
	sms   smsSender
	logg  *logger.Logger

	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
}

// pendingUser is the registration payload parked in redis until the OTP
// comes back.
type pendingUser struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"` // already hashed
}

// NewService builds an auth service with the required dependencies.
func NewService(repo Repository, store Store, sms smsSender, logg *logger.Logger,
	jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, otpCfg config.OTPConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("auth store required")
	}
	if sms == nil {
		return nil, fmt.Errorf("sms sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		store:       store,
		sms:         sms,
		logg:        logg,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		otpCfg:      otpCfg,
	}, nil
}

func (s *service) RegisterStart(ctx context.Context, input RegisterInput) error {
	phone := normalizePhone(input.Phone)
	if phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if len(input.Password) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if _, err := s.repo.FindByPhone(ctx, phone); err == nil {
		return ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking phone: %w", err)
	}

	hashed, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	payload, err := json.Marshal(pendingUser{
		Name:     strings.TrimSpace(input.Name),
		Phone:    phone,
		Password: hashed,
	})
	if err != nil {
		return fmt.Errorf("encoding pending user: %w", err)
	}
	if err := s.store.Set(ctx, s.store.PendingUserKey(phone), string(payload), s.otpCfg.PendingUserTTL); err != nil {
		return fmt.Errorf("parking pending user: %w", err)
	}

	return s.sendOTP(ctx, phone, s.store.OTPKey(phone), s.otpCfg.CodeTTL)
}

func (s *service) RegisterVerify(ctx context.Context, phone, code string) (*AuthResult, error) {
	phone = normalizePhone(phone)
	if err := s.consumeOTP(ctx, s.store.OTPKey(phone), code); err != nil {
		return nil, err
	}

	raw, err := s.store.Get(ctx, s.store.PendingUserKey(phone))
	if err != nil {
		// OTP survived longer than the pending payload; restart registration.
		return nil, ErrInvalidOTP
	}
	var pending pendingUser
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("decoding pending user: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:     pending.Name,
		Phone:    pending.Phone,
		Password: pending.Password,
		Role:     enums.UserRoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := s.store.Del(ctx, s.store.PendingUserKey(phone)); err != nil {
		s.logg.Warn(ctx, "removing pending registration failed")
	}

	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	phone = normalizePhone(phone)
	if phone == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// Logout blacklists the token's jti for its remaining lifetime; a shorter
// redis entry would resurrect the token, a longer one just wastes memory.
func (s *service) Logout(ctx context.Context, jti string, remaining time.Duration) error {
	if jti == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token id required")
	}
	if remaining <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, s.store.BlacklistKey(jti), "1", remaining); err != nil {
		return fmt.Errorf("blacklisting token: %w", err)
	}
	return nil
}

func (s *service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.store.Exists(ctx, s.store.BlacklistKey(jti))
}

func (s *service) ForgotPassword(ctx context.Context, phone string) error {
	phone = normalizePhone(phone)
	if phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}

	// Unknown phones get a silent success so the endpoint cannot be used to
	// enumerate accounts.
	if _, err := s.repo.FindByPhone(ctx, phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("loading user: %w", err)
	}

	return s.sendOTP(ctx, phone, s.store.ResetTokenKey(phone), s.otpCfg.ResetTokenTTL)
}

func (s *service) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	phone = normalizePhone(phone)
	if len(newPassword) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if err := s.consumeOTP(ctx, s.store.ResetTokenKey(phone), code); err != nil {
		return err
	}

	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("loading user: %w", err)
	}

	hashed, err := security.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, user.ID, hashed)
}

func (s *service) sendOTP(ctx context.Context, phone, key string, ttl time.Duration) error {
	code, err := security.GenerateOTPCode(otpLength)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}
	if err := s.store.Set(ctx, key, code, ttl); err != nil {
		return fmt.Errorf("storing code: %w", err)
	}
	if err := s.sms.Send(ctx, phone, fmt.Sprintf("Darchin verification code: %s", code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending verification sms failed")
	}
	return nil
}

func (s *service) consumeOTP(ctx context.Context, key, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidOTP
	}
	stored, err := s.store.Get(ctx, key)
	if err != nil || stored != code {
		return ErrInvalidOTP
	}
	// Single use: a replayed code must not pass twice.
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("consuming code: %w", err)
	}
	return nil
}

func (s *service) issueToken(user *models.User) (*AuthResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("minting token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	if strings.HasPrefix(phone, "+98") {
		phone = "0" + phone[3:]
	}
	return phone
}
