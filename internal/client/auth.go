package client

import (
	"context"
	"net/http"
)

// Admin is the profile of the signed-in administrator.
type Admin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthResponse is the backend's answer to a login-type call. A credential
// is issued only when Success is true and Token is non-empty.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Admin   Admin  `json:"admin"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// LoginPayload authenticates with email and password.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPPayload confirms a one-time password sent by email.
type OTPPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

// SignupPayload registers a new administrator.
type SignupPayload struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ResetPasswordPayload sets a new password using an emailed OTP.
type ResetPasswordPayload struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required,numeric,min=4,max=8"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type emailPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// Auth groups the authentication endpoints.
type Auth struct {
	api *API
}

// Auth returns the authentication client.
func (a *API) Auth() *Auth {
	return &Auth{api: a}
}

// Login exchanges credentials for a token.
func (c *Auth) Login(ctx context.Context, p LoginPayload) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/login/", p)
}

// VerifyOTP completes an OTP challenge and may issue a token.
func (c *Auth) VerifyOTP(ctx context.Context, p OTPPayload) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/verify-otp/", p)
}

// Signup registers an administrator. The backend emails an OTP to confirm.
func (c *Auth) Signup(ctx context.Context, p SignupPayload) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/signup/", p)
}

// ResendOTP sends a fresh signup OTP.
func (c *Auth) ResendOTP(ctx context.Context, email string) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/resend-otp/", emailPayload{Email: email})
}

// ForgotPassword emails a password reset OTP.
func (c *Auth) ForgotPassword(ctx context.Context, email string) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/forgot-password/", emailPayload{Email: email})
}

// ResendResetOTP sends a fresh password reset OTP.
func (c *Auth) ResendResetOTP(ctx context.Context, email string) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/resend-forgot-password-otp/", emailPayload{Email: email})
}

// ResetPassword sets a new password.
func (c *Auth) ResetPassword(ctx context.Context, p ResetPasswordPayload) (*AuthResponse, error) {
	return c.call(ctx, "/api/auth/admin/reset-password/", p)
}

// Logout invalidates the current token server-side.
func (c *Auth) Logout(ctx context.Context) error {
	_, err := c.api.send(ctx, "auth", http.MethodPost, "/api/auth/admin/logout/", nil)
	return err
}

func (c *Auth) call(ctx context.Context, path string, payload any) (*AuthResponse, error) {
	if err := Validate(payload); err != nil {
		return nil, err
	}
	body, err := c.api.send(ctx, "auth", http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	admin := body.obj("admin")
	return &AuthResponse{
		Success: body.flag("success"),
		Token:   body.str("token", "access_token"),
		Admin: Admin{
			ID:    admin.str("_id", "id"),
			Name:  admin.str("name", "full_name", "username"),
			Email: admin.str("email"),
			Role:  admin.str("role"),
		},
		Error:   body.str("error"),
		Message: body.str("message"),
	}, nil
}
