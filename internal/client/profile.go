package client

import (
	"context"
	"net/http"
)

// ProfileUpdate changes the signed-in admin's profile. Empty fields are
// not sent.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PasswordChange replaces the signed-in admin's password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func decodeAdmin(f fields) *Admin {
	if a := f.obj("admin"); len(a) > 0 {
		f = a
	} else if p := f.obj("profile"); len(p) > 0 {
		f = p
	}
	return &Admin{
		ID:    f.str("_id", "id"),
		Name:  f.str("name", "full_name", "username"),
		Email: f.str("email"),
		Role:  f.str("role"),
	}
}

// Profile fetches the signed-in admin's profile.
func (a *API) Profile(ctx context.Context) (*Admin, error) {
	f, err := a.get(ctx, "profile", "/api/admin/profile/", nil)
	if err != nil {
		return nil, err
	}
	return decodeAdmin(f), nil
}

// UpdateProfile applies u and returns the updated profile.
func (a *API) UpdateProfile(ctx context.Context, u ProfileUpdate) (*Admin, error) {
	if err := Validate(u); err != nil {
		return nil, err
	}
	f, err := a.send(ctx, "profile", http.MethodPut, "/api/admin/profile/update/", u)
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(f, "Failed to update profile"); err != nil {
		return nil, err
	}
	return decodeAdmin(f), nil
}

// ChangePassword replaces the signed-in admin's password.
func (a *API) ChangePassword(ctx context.Context, p PasswordChange) error {
	if err := Validate(p); err != nil {
		return err
	}
	f, err := a.send(ctx, "profile", http.MethodPut, "/api/admin/profile/change-password/", p)
	if err != nil {
		return err
	}
	return checkSuccess(f, "Failed to change password")
}
