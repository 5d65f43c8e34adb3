package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// RoleAdmin is the user_role value granting access to admin data.
const RoleAdmin = "admin"

// ID is a backend identifier. The backend emits both numeric and string ids;
// ID accepts either and always encodes as a JSON string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is a planner account as returned by the profile endpoints.
type User struct {
	ID        ID            `json:"id"`
	Username  string        `json:"username,omitempty"`
	Email     string        `json:"email,omitempty"`
	Role      string        `json:"user_role,omitempty"`
	Allergies []UserAllergy `json:"allergies,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string `json:"token"`
	UserID  ID     `json:"userId,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResolvedUserID prefers the explicit userId field and falls back to the
// embedded user record.
func (r AuthResponse) ResolvedUserID() ID {
	if r.UserID != "" {
		return r.UserID
	}
	if r.User != nil {
		return r.User.ID
	}
	return ""
}

// Trip is a planned journey owned by a user.
type Trip struct {
	ID          ID     `json:"id,omitempty"`
	UserID      ID     `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Budget is the spending plan attached to a trip.
type Budget struct {
	ID       ID      `json:"id,omitempty"`
	TripID   ID      `json:"trip_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	Category string  `json:"category,omitempty"`
}

// Destination is a place saved by a user. Its Name is the location label
// passed to the warning generator.
type Destination struct {
	ID          ID     `json:"id,omitempty"`
	UserID      ID     `json:"user_id,omitempty"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
}

// Review is a user's rating of a destination.
type Review struct {
	ID            ID     `json:"id,omitempty"`
	UserID        ID     `json:"user_id,omitempty"`
	DestinationID ID     `json:"destination_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment,omitempty"`
}

// Alert is a notification addressed to a user.
type Alert struct {
	ID        ID         `json:"id,omitempty"`
	UserID    ID         `json:"user_id,omitempty"`
	Message   string     `json:"message"`
	Type      string     `json:"type,omitempty"`
	Seen      bool       `json:"seen"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UnseenCount is the body of the unseen-count endpoint.
type UnseenCount struct {
	Count int `json:"count"`
}

// AdminStats summarizes platform usage for administrators.
type AdminStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalTrips        int `json:"totalTrips"`
	TotalDestinations int `json:"totalDestinations"`
	TotalReviews      int `json:"totalReviews"`
}

// Activity is an audit record of something a user did in the app.
type Activity struct {
	UserID     ID        `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
