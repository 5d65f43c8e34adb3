package backend

import (
	"context"
	"net/http"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

// RegisterUser creates an account.
func (c *Client) RegisterUser(ctx context.Context, reg domain.Registration) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, request{endpoint: "register_user", method: http.MethodPost, path: "/users/register", body: reg}, &out)
	return out, err
}

// LoginUser exchanges credentials for a bearer token.
func (c *Client) LoginUser(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, request{endpoint: "login_user", method: http.MethodPost, path: "/users/login", body: creds}, &out)
	return out, err
}

// GetUserProfile fetches the profile for userID.
func (c *Client) GetUserProfile(ctx context.Context, token string, userID domain.ID) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, request{
		endpoint: "get_profile",
		method:   http.MethodGet,
		path:     pathf("/profile/%s", userID.String()),
		token:    token,
	}, &out)
	return out, err
}

// UpdateUserProfile replaces the profile for userID.
func (c *Client) UpdateUserProfile(ctx context.Context, token string, userID domain.ID, user domain.User) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, request{
		endpoint: "update_profile",
		method:   http.MethodPut,
		path:     pathf("/profile/%s", userID.String()),
		token:    token,
		body:     user,
	}, &out)
	return out, err
}

// DeleteUserProfile removes the account for userID.
func (c *Client) DeleteUserProfile(ctx context.Context, token string, userID domain.ID) error {
	return c.do(ctx, request{
		endpoint: "delete_profile",
		method:   http.MethodDelete,
		path:     pathf("/profile/%s", userID.String()),
		token:    token,
	}, nil)
}

// UserAllergies returns the allergies declared on userID's profile.
func (c *Client) UserAllergies(ctx context.Context, token string, userID domain.ID) ([]domain.UserAllergy, error) {
	user, err := c.GetUserProfile(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	return user.Allergies, nil
}

// GetAdminStats returns platform totals. Requires an admin token.
func (c *Client) GetAdminStats(ctx context.Context, token string) (domain.AdminStats, error) {
	var out domain.AdminStats
	err := c.do(ctx, request{endpoint: "admin_stats", method: http.MethodGet, path: "/admin/stats", token: token}, &out)
	return out, err
}

// GetAllUsers lists every account. Requires an admin token.
func (c *Client) GetAllUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, request{endpoint: "admin_users", method: http.MethodGet, path: "/admin/users", token: token}, &out)
	return out, err
}

// GetAllTripsForAdmin lists every trip across users. Requires an admin token.
func (c *Client) GetAllTripsForAdmin(ctx context.Context, token string) ([]domain.Trip, error) {
	var out []domain.Trip
	err := c.do(ctx, request{endpoint: "admin_trips", method: http.MethodGet, path: "/admin/trips", token: token}, &out)
	return out, err
}

// LogAdminActivity records an activity entry. The endpoint is unauthenticated.
func (c *Client) LogAdminActivity(ctx context.Context, activity domain.Activity) error {
	return c.do(ctx, request{endpoint: "admin_activity", method: http.MethodPost, path: "/admin/activity", body: activity}, nil)
}

// RecordActivity forwards activity to the backend's admin activity log.
func (c *Client) RecordActivity(ctx context.Context, activity domain.Activity) error {
	return c.LogAdminActivity(ctx, activity)
}
