package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/internal/infrastructure/mail"
	"p2p-lending.backend/pkg/crypto"
	"p2p-lending.backend/pkg/jwt"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/metrics"
)

// One-time code keys are "<prefix><email>".
const (
	RegisterOTPPrefix   = "otp:"
	LoginOTPPrefix      = "login-otp:"
	PasswordResetPrefix = "password-reset:"

	OTPTTL           = 5 * time.Minute
	PasswordResetTTL = 15 * time.Minute
)

// Mailer queues outbound mail. Delivery failures never reach the caller.
type Mailer interface {
	Dispatch(msg mail.Message)
}

var (
	generateOTP  = crypto.GenerateOTP
	hashPassword = crypto.HashPassword
	authNow      = time.Now
)

// AuthUsecase handles accounts, one-time codes, device trust and token issuance.
type AuthUsecase struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	codes       repositories.CodeCache
	jwtService  *jwt.JWTService
	mailer      Mailer
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	codes repositories.CodeCache,
	jwtService *jwt.JWTService,
	mailer Mailer,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		codes:       codes,
		jwtService:  jwtService,
		mailer:      mailer,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails a verification code
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	email := normalizeEmail(input.Email)

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, badRequest(domainerrors.KeyEmailExist, domainerrors.ErrAlreadyExists)
	} else if !isNotFound(err) {
		return nil, internal(err)
	}

	if input.Phone != "" {
		if _, err := u.userRepo.GetByPhone(ctx, input.Phone); err == nil {
			return nil, badRequest(domainerrors.KeyPhoneExist, domainerrors.ErrAlreadyExists)
		} else if !isNotFound(err) {
			return nil, internal(err)
		}
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, internal(err)
	}

	user := &entities.User{
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        null.NewString(input.Phone, input.Phone != ""),
		PasswordHash: passwordHash,
		Role:         entities.UserRoleUser,
		Status:       entities.UserStatusActive,
		IsVerified:   false,
		CreditScore:  entities.DefaultCreditScore,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, internal(err)
	}

	if err := u.sendCode(ctx, RegisterOTPPrefix, email, OTPTTL, mail.TemplateVerifyEmail, "Xác thực email đăng ký", nil); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// VerifyEmail consumes the registration code and marks the address verified
func (u *AuthUsecase) VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) error {
	email := normalizeEmail(input.Email)

	user, err := u.unverifiedUser(ctx, email)
	if err != nil {
		return err
	}
	if err := u.consumeCode(ctx, RegisterOTPPrefix+email, input.OTP); err != nil {
		return err
	}
	if err := u.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return internal(err)
	}
	return nil
}

// ResendOTP replaces the registration code and mails it again
func (u *AuthUsecase) ResendOTP(ctx context.Context, rawEmail string) error {
	email := normalizeEmail(rawEmail)

	if _, err := u.unverifiedUser(ctx, email); err != nil {
		return err
	}
	return u.sendCode(ctx, RegisterOTPPrefix, email, OTPTTL, mail.TemplateVerifyEmail, "Xác thực email đăng ký", nil)
}

func (u *AuthUsecase) unverifiedUser(ctx context.Context, email string) (*entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, badRequest(domainerrors.KeyUserNotFound, domainerrors.ErrNotFound)
		}
		return nil, internal(err)
	}
	if user.IsVerified {
		return nil, badRequest(domainerrors.KeyEmailAlreadyVerified, domainerrors.ErrInvalidInput)
	}
	return user, nil
}

// Login checks credentials and the account gate, then either issues tokens for a
// trusted device or mails a login code and asks for it.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error) {
	email := normalizeEmail(input.Email)

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !isNotFound(err) {
			return nil, internal(err)
		}
		metrics.LoginAttempts.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, badRequest(domainerrors.KeyEmailOrPasswordInvalid, domainerrors.ErrInvalidCredentials)
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, badRequest(domainerrors.KeyEmailOrPasswordInvalid, domainerrors.ErrInvalidCredentials)
	}

	if err := checkAccountGate(user); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, err
	}

	if input.DeviceID != "" {
		_, err := u.sessionRepo.FindTrusted(ctx, user.ID, input.DeviceID)
		switch {
		case err == nil:
			metrics.LoginAttempts.WithLabelValues(metrics.LoginTrusted).Inc()
			return u.issueTokens(ctx, user, input.DeviceInfo, true)
		case !isNotFound(err):
			return nil, internal(err)
		}
	}

	deviceName := input.DeviceName
	if deviceName == "" {
		deviceName = "Unknown Device"
	}
	deviceType := string(input.DeviceType)
	if deviceType == "" {
		deviceType = "Unknown"
	}
	extra := map[string]interface{}{"deviceName": deviceName, "deviceType": deviceType}
	if err := u.sendCode(ctx, LoginOTPPrefix, email, OTPTTL, mail.TemplateVerifyLogin, "Mã xác thực đăng nhập", extra); err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues(metrics.LoginOTPRequired).Inc()
	return &entities.LoginResult{RequireOTP: true, Email: email}, nil
}

func checkAccountGate(user *entities.User) error {
	switch {
	case user.Status == entities.UserStatusBanned:
		return badRequest(domainerrors.KeyAccountIsBanned, domainerrors.ErrAccountBanned)
	case user.Status == entities.UserStatusSuspended:
		return badRequest(domainerrors.KeyAccountIsSuspended, domainerrors.ErrAccountSuspended)
	case !user.IsVerified:
		return badRequest(domainerrors.KeyEmailNotVerified, domainerrors.ErrEmailNotVerified)
	}
	return nil
}

// VerifyLoginOTP consumes the login code and issues tokens, trusting the device when asked
func (u *AuthUsecase) VerifyLoginOTP(ctx context.Context, input *entities.VerifyLoginOTPInput) (*entities.LoginResult, error) {
	email := normalizeEmail(input.Email)

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, badRequest(domainerrors.KeyUserNotFound, domainerrors.ErrNotFound)
		}
		return nil, internal(err)
	}
	if err := u.consumeCode(ctx, LoginOTPPrefix+email, input.OTP); err != nil {
		return nil, err
	}
	// status may have changed since the code was mailed
	if err := checkAccountGate(user); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, err
	}

	logger.Info(ctx, "Login OTP verified",
		zap.String("user_id", user.ID.String()),
		zap.String("device_id", input.DeviceID),
		zap.Bool("trust_device", input.TrustDevice),
	)
	metrics.LoginAttempts.WithLabelValues(metrics.LoginOTPVerified).Inc()
	return u.issueTokens(ctx, user, input.DeviceInfo, input.TrustDevice)
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *entities.User, device entities.DeviceInfo, trusted bool) (*entities.LoginResult, error) {
	pair, err := u.jwtService.GenerateTokenPair(ctx, subjectOf(user))
	if err != nil {
		return nil, internal(err)
	}

	if device.DeviceID != "" {
		_, err := u.sessionRepo.Upsert(ctx, &entities.SessionUpsert{
			UserID:       user.ID,
			Device:       device,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			Trust:        trusted,
			ExpiresAt:    authNow().Add(entities.SessionLifetime),
		})
		if err != nil {
			return nil, internal(err)
		}
	}

	return &entities.LoginResult{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		IsTrustedDevice: trusted,
		User:            user,
	}, nil
}

func subjectOf(user *entities.User) jwt.Subject {
	return jwt.Subject{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		IsAdmin: user.Role.IsAdmin(),
	}
}

// RefreshToken issues a new pair from a valid refresh token. The presented token stays valid until it expires.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, badRequest(domainerrors.KeyTokenExpired, domainerrors.ErrTokenExpired)
		}
		return nil, badRequest(domainerrors.KeyTokenInvalid, domainerrors.ErrTokenInvalid)
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, badRequest(domainerrors.KeyTokenInvalid, domainerrors.ErrTokenInvalid)
		}
		return nil, internal(err)
	}

	pair, err := u.jwtService.GenerateTokenPair(ctx, subjectOf(user))
	if err != nil {
		return nil, internal(err)
	}
	return pair, nil
}

// Logout ends sessions. With neither a device nor logoutAll it only succeeds; the client drops its tokens.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID, input *entities.LogoutInput) error {
	var err error
	switch {
	case input.LogoutAll:
		var count int64
		count, err = u.sessionRepo.DeactivateAll(ctx, userID)
		if err == nil {
			logger.Info(ctx, "User logged out from all devices", zap.String("user_id", userID.String()), zap.Int64("count", count))
		}
	case input.DeviceID != "":
		err = u.sessionRepo.Deactivate(ctx, userID, input.DeviceID)
		if err == nil {
			logger.Info(ctx, "User logged out from device", zap.String("user_id", userID.String()), zap.String("device_id", input.DeviceID))
		}
	default:
		logger.Info(ctx, "User logged out (token cleared on client)", zap.String("user_id", userID.String()))
	}

	if err != nil {
		logger.Error(ctx, "Logout failed", zap.String("user_id", userID.String()), zap.Error(err))
		return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.KeyLogoutFailed, "logout failed", err)
	}
	return nil
}

// GetMe returns the caller's profile
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(domainerrors.KeyUserNotFound)
		}
		return nil, internal(err)
	}
	return user, nil
}

// UpdateMe applies profile changes of the caller
func (u *AuthUsecase) UpdateMe(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(ctx, u.userRepo, user, input); err != nil {
		return nil, err
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, internal(err)
	}
	return user, nil
}

// applyProfile copies the set fields of input onto user, enforcing phone uniqueness
func applyProfile(ctx context.Context, repo repositories.UserRepository, user *entities.User, input *entities.UpdateProfileInput) error {
	if input.Phone != nil && *input.Phone != user.Phone.String {
		if *input.Phone != "" {
			other, err := repo.GetByPhone(ctx, *input.Phone)
			if err == nil && other.ID != user.ID {
				return badRequest(domainerrors.KeyPhoneExist, domainerrors.ErrAlreadyExists)
			}
			if err != nil && !isNotFound(err) {
				return internal(err)
			}
		}
		user.Phone = null.NewString(*input.Phone, *input.Phone != "")
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Avatar != nil {
		user.Avatar = null.NewString(*input.Avatar, *input.Avatar != "")
	}
	if input.Bio != nil {
		user.Bio = null.NewString(*input.Bio, *input.Bio != "")
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	return nil
}

// ChangePassword replaces the caller's password after checking the old one
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.GetMe(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.OldPassword, user.PasswordHash) {
		return badRequest(domainerrors.KeyOldPasswordInvalid, domainerrors.ErrInvalidCredentials)
	}
	return u.setPassword(ctx, user.ID, input.NewPassword)
}

// ForgotPassword mails a reset code to a known address
func (u *AuthUsecase) ForgotPassword(ctx context.Context, rawEmail string) error {
	email := normalizeEmail(rawEmail)
	if _, err := u.userRepo.GetByEmail(ctx, email); err != nil {
		if isNotFound(err) {
			return badRequest(domainerrors.KeyEmailNotExist, domainerrors.ErrNotFound)
		}
		return internal(err)
	}
	return u.sendCode(ctx, PasswordResetPrefix, email, PasswordResetTTL, mail.TemplateForgotPassword, "Đặt lại mật khẩu", nil)
}

// ResetPassword consumes the reset code and sets the new password
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	email := normalizeEmail(input.Email)
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return badRequest(domainerrors.KeyUserNotFound, domainerrors.ErrNotFound)
		}
		return internal(err)
	}
	if err := u.consumeCode(ctx, PasswordResetPrefix+email, input.OTP); err != nil {
		return err
	}
	return u.setPassword(ctx, user.ID, input.NewPassword)
}

func (u *AuthUsecase) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return internal(err)
	}
	return nil
}

// ListSessions returns the caller's active device sessions
func (u *AuthUsecase) ListSessions(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	sessions, err := u.sessionRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return sessions, nil
}

// UntrustDevice makes the next login from deviceID require a code again
func (u *AuthUsecase) UntrustDevice(ctx context.Context, userID uuid.UUID, deviceID string) error {
	if err := u.sessionRepo.Untrust(ctx, userID, deviceID); err != nil {
		if isNotFound(err) {
			return notFound(domainerrors.KeyNotFound)
		}
		return internal(err)
	}
	return nil
}

// sendCode stores a fresh code under prefix+email, replacing any live one, and mails it.
func (u *AuthUsecase) sendCode(ctx context.Context, prefix, email string, ttl time.Duration, tpl mail.Template, subject string, extra map[string]interface{}) error {
	code, err := generateOTP()
	if err != nil {
		return internal(err)
	}
	if err := u.codes.Set(ctx, prefix+email, code, ttl); err != nil {
		return internal(err)
	}

	data := map[string]interface{}{"otp": code}
	for k, v := range extra {
		data[k] = v
	}
	u.mailer.Dispatch(mail.Message{To: email, Subject: subject, Template: tpl, Context: data})
	return nil
}

// consumeCode deletes the cached code when otp matches it. Only one of several concurrent callers can win.
func (u *AuthUsecase) consumeCode(ctx context.Context, key, otp string) error {
	ok, err := u.codes.Consume(ctx, key, otp)
	if err != nil {
		return internal(err)
	}
	if !ok {
		return badRequest(domainerrors.KeyInvalidOTP, domainerrors.ErrInvalidOTP)
	}
	return nil
}
