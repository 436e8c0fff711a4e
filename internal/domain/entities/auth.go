package entities

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceInfo
}

// VerifyLoginOTPInput completes a login that required a code
type VerifyLoginOTPInput struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	TrustDevice bool   `json:"trustDevice"`
	DeviceInfo
}

// VerifyEmailInput confirms an address with the registration code
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// EmailInput carries a bare email address
type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput completes a forgotten-password flow
type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// LogoutInput selects which sessions to end
type LogoutInput struct {
	DeviceID  string `json:"deviceId"`
	LogoutAll bool   `json:"logoutAll"`
}

// LoginResult is either an OTP challenge or an issued token pair.
type LoginResult struct {
	RequireOTP      bool   `json:"requireOtp,omitempty"`
	Email           string `json:"email,omitempty"`
	AccessToken     string `json:"accessToken,omitempty"`
	RefreshToken    string `json:"refreshToken,omitempty"`
	IsTrustedDevice bool   `json:"isTrustedDevice"`
	User            *User  `json:"user,omitempty"`
}
