package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/mail"
	"p2p-lending.backend/internal/usecases"
	"p2p-lending.backend/pkg/crypto"
	"p2p-lending.backend/pkg/jwt"
)

const testPassword = "Password123!"

var (
	hashOnce   sync.Once
	hashedPass string
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		hashedPass, err = crypto.HashPassword(testPassword)
		require.NoError(t, err)
	})
	return hashedPass
}

type authDeps struct {
	users    *MockUserRepository
	sessions *MockSessionRepository
	codes    *MockCodeCache
	mailer   *MockMailer
	jwt      *jwt.JWTService
}

func newAuthUsecaseForTest() (*usecases.AuthUsecase, *authDeps) {
	d := &authDeps{
		users:    new(MockUserRepository),
		sessions: new(MockSessionRepository),
		codes:    new(MockCodeCache),
		mailer:   new(MockMailer),
		jwt:      jwt.NewJWTService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
	}
	return usecases.NewAuthUsecase(d.users, d.sessions, d.codes, d.jwt, d.mailer), d
}

func verifiedUser(t *testing.T) *entities.User {
	return &entities.User{
		ID:           uuid.New(),
		Email:        "borrower@mail.com",
		FullName:     "Borrower",
		PasswordHash: testPasswordHash(t),
		Role:         entities.UserRoleUser,
		Status:       entities.UserStatusActive,
		IsVerified:   true,
		CreditScore:  entities.DefaultCreditScore,
	}
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	uc, d := newAuthUsecaseForTest()
	ctx := context.Background()

	d.users.On("GetByEmail", ctx, "new@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	d.users.On("GetByPhone", ctx, "0912345678").Return(nil, domainerrors.ErrNotFound).Once()
	d.users.On("Create", ctx, mock.AnythingOfType("*entities.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.User).ID = uuid.New()
	}).Return(nil).Once()
	d.codes.On("Set", ctx, "otp:new@mail.com", mock.MatchedBy(isSixDigits), usecases.OTPTTL).Return(nil).Once()
	d.mailer.On("Dispatch", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "new@mail.com" && msg.Template == mail.TemplateVerifyEmail && isSixDigits(msg.Context["otp"].(string))
	})).Once()

	user, err := uc.Register(ctx, &entities.RegisterInput{
		Email:    "  New@Mail.com ",
		FullName: " New User ",
		Password: testPassword,
		Phone:    "0912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@mail.com", user.Email)
	assert.Equal(t, "New User", user.FullName)
	assert.False(t, user.IsVerified)
	assert.Equal(t, entities.UserRoleUser, user.Role)
	assert.Equal(t, entities.UserStatusActive, user.Status)
	assert.Equal(t, entities.DefaultCreditScore, user.CreditScore)
	assert.True(t, crypto.CheckPassword(testPassword, user.PasswordHash))
	d.users.AssertExpectations(t)
	d.codes.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
}

func TestAuthUsecase_Register_Duplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "taken@mail.com").Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.Register(ctx, &entities.RegisterInput{Email: "taken@mail.com", FullName: "T", Password: testPassword})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyEmailExist)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
		d.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("phone", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "free@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
		d.users.On("GetByPhone", ctx, "0900000000").Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.Register(ctx, &entities.RegisterInput{Email: "free@mail.com", FullName: "F", Password: testPassword, Phone: "0900000000"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyPhoneExist)
		d.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "x@mail.com").Return(nil, errors.New("db down")).Once()

		_, err := uc.Register(ctx, &entities.RegisterInput{Email: "x@mail.com", FullName: "X", Password: testPassword})
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyInternalServerError)
	})
}

func TestAuthUsecase_VerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success consumes the code", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		user.IsVerified = false
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "otp:"+user.Email, "123456").Return(true, nil).Once()
		d.users.On("MarkVerified", ctx, user.ID).Return(nil).Once()

		require.NoError(t, uc.VerifyEmail(ctx, &entities.VerifyEmailInput{Email: user.Email, OTP: "123456"}))
		d.codes.AssertExpectations(t)
		d.users.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		user.IsVerified = false
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "otp:"+user.Email, "654321").Return(false, nil).Once()

		err := uc.VerifyEmail(ctx, &entities.VerifyEmailInput{Email: user.Email, OTP: "654321"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyInvalidOTP)
		d.users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("expired code", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		user.IsVerified = false
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "otp:"+user.Email, "123456").Return(false, nil).Once()

		err := uc.VerifyEmail(ctx, &entities.VerifyEmailInput{Email: user.Email, OTP: "123456"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyInvalidOTP)
	})

	t.Run("already verified", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

		err := uc.VerifyEmail(ctx, &entities.VerifyEmailInput{Email: user.Email, OTP: "123456"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyEmailAlreadyVerified)
	})

	t.Run("unknown user", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "ghost@mail.com").Return(nil, domainerrors.ErrNotFound).Once()

		err := uc.VerifyEmail(ctx, &entities.VerifyEmailInput{Email: "ghost@mail.com", OTP: "123456"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyUserNotFound)
	})
}

func TestAuthUsecase_ResendOTP_ReplacesCode(t *testing.T) {
	uc, d := newAuthUsecaseForTest()
	ctx := context.Background()
	user := verifiedUser(t)
	user.IsVerified = false

	d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	d.codes.On("Set", ctx, "otp:"+user.Email, mock.MatchedBy(isSixDigits), usecases.OTPTTL).Return(nil).Once()
	d.mailer.On("Dispatch", mock.AnythingOfType("mail.Message")).Once()

	require.NoError(t, uc.ResendOTP(ctx, user.Email))
	d.codes.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
}

func TestAuthUsecase_Login_Rejections(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*entities.User)
		pass   string
		key    string
	}{
		{name: "wrong password", pass: "nope", key: domainerrors.KeyEmailOrPasswordInvalid},
		{name: "banned", pass: testPassword, key: domainerrors.KeyAccountIsBanned, mutate: func(u *entities.User) { u.Status = entities.UserStatusBanned }},
		{name: "suspended", pass: testPassword, key: domainerrors.KeyAccountIsSuspended, mutate: func(u *entities.User) { u.Status = entities.UserStatusSuspended }},
		{name: "unverified", pass: testPassword, key: domainerrors.KeyEmailNotVerified, mutate: func(u *entities.User) { u.IsVerified = false }},
		{name: "banned wins over unverified", pass: testPassword, key: domainerrors.KeyAccountIsBanned, mutate: func(u *entities.User) {
			u.Status = entities.UserStatusBanned
			u.IsVerified = false
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, d := newAuthUsecaseForTest()
			user := verifiedUser(t)
			if tc.mutate != nil {
				tc.mutate(user)
			}
			d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

			res, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: tc.pass, DeviceInfo: entities.DeviceInfo{DeviceID: "dev-1"}})
			assert.Nil(t, res)
			requireAppError(t, err, http.StatusBadRequest, tc.key)
			d.sessions.AssertNotCalled(t, "FindTrusted", mock.Anything, mock.Anything, mock.Anything)
			d.mailer.AssertNotCalled(t, "Dispatch", mock.Anything)
		})
	}

	t.Run("unknown email", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "ghost@mail.com").Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.Login(ctx, &entities.LoginInput{Email: "ghost@mail.com", Password: testPassword})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyEmailOrPasswordInvalid)
	})
}

func TestAuthUsecase_Login_TrustedDeviceIssuesTokens(t *testing.T) {
	uc, d := newAuthUsecaseForTest()
	ctx := context.Background()
	user := verifiedUser(t)
	device := entities.DeviceInfo{DeviceID: "dev-1", DeviceName: "Pixel", DeviceType: entities.DeviceTypeAndroid}

	d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	d.sessions.On("FindTrusted", ctx, user.ID, "dev-1").Return(&entities.Session{IsTrusted: true, IsActive: true}, nil).Once()
	d.sessions.On("Upsert", ctx, mock.MatchedBy(func(in *entities.SessionUpsert) bool {
		return in.UserID == user.ID && in.Device.DeviceID == "dev-1" && in.Trust &&
			in.AccessToken != "" && in.RefreshToken != "" && in.ExpiresAt.After(time.Now())
	})).Return(&entities.Session{}, nil).Once()

	res, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: testPassword, DeviceInfo: device})
	require.NoError(t, err)
	assert.False(t, res.RequireOTP)
	assert.True(t, res.IsTrustedDevice)
	assert.Same(t, user, res.User)

	claims, err := d.jwt.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.False(t, claims.IsAdmin)

	refresh, err := d.jwt.ValidateRefreshToken(res.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Email)
	d.mailer.AssertNotCalled(t, "Dispatch", mock.Anything)
	d.sessions.AssertExpectations(t)
}

func TestAuthUsecase_Login_UntrustedDeviceRequiresOTP(t *testing.T) {
	uc, d := newAuthUsecaseForTest()
	ctx := context.Background()
	user := verifiedUser(t)

	d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	d.sessions.On("FindTrusted", ctx, user.ID, "dev-2").Return(nil, domainerrors.ErrNotFound).Once()
	d.codes.On("Set", ctx, "login-otp:"+user.Email, mock.MatchedBy(isSixDigits), usecases.OTPTTL).Return(nil).Once()
	d.mailer.On("Dispatch", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.Template == mail.TemplateVerifyLogin &&
			msg.Context["deviceName"] == "Unknown Device" &&
			msg.Context["deviceType"] == "Unknown"
	})).Once()

	res, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: testPassword, DeviceInfo: entities.DeviceInfo{DeviceID: "dev-2"}})
	require.NoError(t, err)
	assert.True(t, res.RequireOTP)
	assert.Equal(t, user.Email, res.Email)
	assert.Empty(t, res.AccessToken)
	d.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	d.mailer.AssertExpectations(t)
}

func TestAuthUsecase_Login_WithoutDeviceSkipsTrustLookup(t *testing.T) {
	uc, d := newAuthUsecaseForTest()
	ctx := context.Background()
	user := verifiedUser(t)

	d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	d.codes.On("Set", ctx, "login-otp:"+user.Email, mock.Anything, usecases.OTPTTL).Return(nil).Once()
	d.mailer.On("Dispatch", mock.Anything).Once()

	res, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: testPassword})
	require.NoError(t, err)
	assert.True(t, res.RequireOTP)
	d.sessions.AssertNotCalled(t, "FindTrusted", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_VerifyLoginOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("trusts the device when asked", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "login-otp:"+user.Email, "111222").Return(true, nil).Once()
		d.sessions.On("Upsert", ctx, mock.MatchedBy(func(in *entities.SessionUpsert) bool {
			return in.Trust && in.Device.DeviceID == "dev-3"
		})).Return(&entities.Session{}, nil).Once()

		res, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{
			Email:       user.Email,
			OTP:         "111222",
			TrustDevice: true,
			DeviceInfo:  entities.DeviceInfo{DeviceID: "dev-3"},
		})
		require.NoError(t, err)
		assert.True(t, res.IsTrustedDevice)
		assert.NotEmpty(t, res.AccessToken)
		d.sessions.AssertExpectations(t)
	})

	t.Run("no device means no session row", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "login-otp:"+user.Email, "111222").Return(true, nil).Once()

		res, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{Email: user.Email, OTP: "111222"})
		require.NoError(t, err)
		assert.False(t, res.IsTrustedDevice)
		d.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("invalid code", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "login-otp:"+user.Email, "000000").Return(false, nil).Once()

		_, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{Email: user.Email, OTP: "000000"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyInvalidOTP)
	})

	t.Run("session write failure", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "login-otp:"+user.Email, "111222").Return(true, nil).Once()
		d.sessions.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{Email: user.Email, OTP: "111222", DeviceInfo: entities.DeviceInfo{DeviceID: "d"}})
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyInternalServerError)
	})

	t.Run("account gated after the code was mailed", func(t *testing.T) {
		for status, key := range map[entities.UserStatus]string{
			entities.UserStatusBanned:    domainerrors.KeyAccountIsBanned,
			entities.UserStatusSuspended: domainerrors.KeyAccountIsSuspended,
		} {
			uc, d := newAuthUsecaseForTest()
			user := verifiedUser(t)
			user.Status = status
			d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
			d.codes.On("Consume", ctx, "login-otp:"+user.Email, "111222").Return(true, nil).Once()

			res, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{
				Email:       user.Email,
				OTP:         "111222",
				TrustDevice: true,
				DeviceInfo:  entities.DeviceInfo{DeviceID: "d"},
			})
			assert.Nil(t, res)
			requireAppError(t, err, http.StatusBadRequest, key)
			d.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		}
	})

	t.Run("code store failure", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		d.codes.On("Consume", ctx, "login-otp:"+user.Email, "111222").Return(false, errors.New("redis down")).Once()

		_, err := uc.VerifyLoginOTP(ctx, &entities.VerifyLoginOTPInput{Email: user.Email, OTP: "111222"})
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyInternalServerError)
	})
}

func TestAuthUsecase_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		user.Role = entities.UserRoleSuperAdmin
		pair, err := d.jwt.GenerateTokenPair(ctx, jwt.Subject{UserID: user.ID, Email: user.Email, Role: string(user.Role)})
		require.NoError(t, err)
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()

		next, err := uc.RefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		claims, err := d.jwt.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("expired", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		stale := jwt.NewJWTService("access-secret", "refresh-secret", time.Minute, -time.Minute)
		pair, err := stale.GenerateTokenPair(ctx, jwt.Subject{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = uc.RefreshToken(ctx, pair.RefreshToken)
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyTokenExpired)
		d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		pair, err := d.jwt.GenerateTokenPair(ctx, jwt.Subject{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = uc.RefreshToken(ctx, pair.AccessToken)
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		uc, _ := newAuthUsecaseForTest()
		_, err := uc.RefreshToken(ctx, "not-a-jwt")
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyTokenInvalid)
	})

	t.Run("user gone", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		id := uuid.New()
		pair, err := d.jwt.GenerateTokenPair(ctx, jwt.Subject{UserID: id})
		require.NoError(t, err)
		d.users.On("GetByID", ctx, id).Return(nil, domainerrors.ErrNotFound).Once()

		_, err = uc.RefreshToken(ctx, pair.RefreshToken)
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyTokenInvalid)
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("all devices", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.sessions.On("DeactivateAll", ctx, userID).Return(int64(3), nil).Once()

		require.NoError(t, uc.Logout(ctx, userID, &entities.LogoutInput{LogoutAll: true, DeviceID: "ignored"}))
		d.sessions.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one device", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.sessions.On("Deactivate", ctx, userID, "dev-1").Return(nil).Once()

		require.NoError(t, uc.Logout(ctx, userID, &entities.LogoutInput{DeviceID: "dev-1"}))
		d.sessions.AssertExpectations(t)
	})

	t.Run("client only", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		require.NoError(t, uc.Logout(ctx, userID, &entities.LogoutInput{}))
		d.sessions.AssertNotCalled(t, "DeactivateAll", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.sessions.On("DeactivateAll", ctx, userID).Return(int64(0), errors.New("db down")).Once()

		err := uc.Logout(ctx, userID, &entities.LogoutInput{LogoutAll: true})
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyLogoutFailed)
	})
}

func TestAuthUsecase_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("get missing user", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.GetMe(ctx, id)
		requireAppError(t, err, http.StatusNotFound, domainerrors.KeyUserNotFound)
	})

	t.Run("update rejects a taken phone", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		phone := "0988888888"
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("GetByPhone", ctx, phone).Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.UpdateMe(ctx, user.ID, &entities.UpdateProfileInput{Phone: &phone})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyPhoneExist)
		d.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("update applies set fields only", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		name := " Renamed "
		gender := entities.GenderFemale
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("Update", ctx, user).Return(nil).Once()

		got, err := uc.UpdateMe(ctx, user.ID, &entities.UpdateProfileInput{FullName: &name, Gender: &gender})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.FullName)
		assert.Equal(t, entities.GenderFemale, got.Gender)
		assert.False(t, got.Phone.Valid)
	})
}

func TestAuthUsecase_Passwords(t *testing.T) {
	ctx := context.Background()

	t.Run("change with wrong old password", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()

		err := uc.ChangePassword(ctx, user.ID, &entities.ChangePasswordInput{OldPassword: "wrong", NewPassword: "NewPassword1"})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyOldPasswordInvalid)
	})

	t.Run("change", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(hash string) bool {
			return crypto.CheckPassword("NewPassword1", hash)
		})).Return(nil).Once()

		require.NoError(t, uc.ChangePassword(ctx, user.ID, &entities.ChangePasswordInput{OldPassword: testPassword, NewPassword: "NewPassword1"}))
		d.users.AssertExpectations(t)
	})

	t.Run("forgot unknown email", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.users.On("GetByEmail", ctx, "ghost@mail.com").Return(nil, domainerrors.ErrNotFound).Once()

		err := uc.ForgotPassword(ctx, "ghost@mail.com")
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyEmailNotExist)
	})

	t.Run("forgot then reset", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		user := verifiedUser(t)
		key := usecases.PasswordResetPrefix + user.Email
		var code string

		d.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Twice()
		d.codes.On("Set", ctx, key, mock.MatchedBy(isSixDigits), usecases.PasswordResetTTL).Run(func(args mock.Arguments) {
			code = args.String(2)
		}).Return(nil).Once()
		d.mailer.On("Dispatch", mock.MatchedBy(func(msg mail.Message) bool {
			return msg.Template == mail.TemplateForgotPassword
		})).Once()

		require.NoError(t, uc.ForgotPassword(ctx, user.Email))
		require.Len(t, code, 6)

		d.codes.On("Consume", ctx, key, code).Return(true, nil).Once()
		d.users.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()

		require.NoError(t, uc.ResetPassword(ctx, &entities.ResetPasswordInput{Email: user.Email, OTP: code, NewPassword: "NewPassword1"}))
		d.codes.AssertExpectations(t)
		d.users.AssertExpectations(t)
	})
}

func TestAuthUsecase_Sessions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("list", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.sessions.On("ListActive", ctx, userID).Return([]*entities.Session{{DeviceID: "a"}, {DeviceID: "b"}}, nil).Once()

		sessions, err := uc.ListSessions(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("untrust unknown device", func(t *testing.T) {
		uc, d := newAuthUsecaseForTest()
		d.sessions.On("Untrust", ctx, userID, "nope").Return(domainerrors.ErrNotFound).Once()

		err := uc.UntrustDevice(ctx, userID, "nope")
		requireAppError(t, err, http.StatusNotFound, domainerrors.KeyNotFound)
	})
}
