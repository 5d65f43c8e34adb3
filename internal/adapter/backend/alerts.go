package backend

import (
	"context"
	"net/http"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

// CreateAlert stores an alert for a user.
func (c *Client) CreateAlert(ctx context.Context, token string, alert domain.Alert) (domain.Alert, error) {
	var out domain.Alert
	err := c.do(ctx, request{endpoint: "create_alert", method: http.MethodPost, path: "/alerts", token: token, body: alert}, &out)
	return out, err
}

// GetUserAlerts lists alerts addressed to userID.
func (c *Client) GetUserAlerts(ctx context.Context, token string, userID domain.ID) ([]domain.Alert, error) {
	var out []domain.Alert
	err := c.do(ctx, request{
		endpoint: "list_user_alerts",
		method:   http.MethodGet,
		path:     pathf("/alerts/user/%s", userID.String()),
		token:    token,
	}, &out)
	return out, err
}

// MarkAlertAsSeen flags alertID as seen.
func (c *Client) MarkAlertAsSeen(ctx context.Context, token string, alertID domain.ID) error {
	return c.do(ctx, request{
		endpoint: "mark_alert_seen",
		method:   http.MethodPatch,
		path:     pathf("/alerts/seen/%s", alertID.String()),
		token:    token,
	}, nil)
}

// DeleteAlert removes alertID.
func (c *Client) DeleteAlert(ctx context.Context, token string, alertID domain.ID) error {
	return c.do(ctx, request{
		endpoint: "delete_alert",
		method:   http.MethodDelete,
		path:     pathf("/alerts/%s", alertID.String()),
		token:    token,
	}, nil)
}

// GetUnseenAlertCount returns how many of userID's alerts are unseen.
func (c *Client) GetUnseenAlertCount(ctx context.Context, token string, userID domain.ID) (int, error) {
	var out domain.UnseenCount
	err := c.do(ctx, request{
		endpoint: "unseen_alert_count",
		method:   http.MethodGet,
		path:     pathf("/alerts/user/%s/unseen-count", userID.String()),
		token:    token,
	}, &out)
	return out.Count, err
}
