package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, observability.NewMetricsForTesting(), discardLogger())
}

// recordedRequest captures what the fake backend saw.
type recordedRequest struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      map[string]any
}

// fakeBackend answers every request with status and the JSON encoding of reply.
func fakeBackend(t *testing.T, status int, reply any) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.EscapedPath()
		rec.Auth = r.Header.Get("Authorization")
		rec.RequestID = r.Header.Get("X-Request-ID")
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				assert.NoError(t, json.Unmarshal(data, &rec.Body))
			}
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(status)
		if reply != nil {
			assert.NoError(t, json.NewEncoder(w).Encode(reply))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_LoginUser(t *testing.T) {
	srv, rec := fakeBackend(t, http.StatusOK, map[string]any{
		"token":  "jwt-abc",
		"userId": 12,
		"user":   map[string]any{"id": 12, "username": "thandi"},
	})

	resp, err := testClient(srv.URL).LoginUser(context.Background(), domain.Credentials{Email: "t@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/users/login", rec.Path)
	assert.Empty(t, rec.Auth, "login is unauthenticated")
	assert.Equal(t, "t@example.com", rec.Body["email"])
	assert.Equal(t, "jwt-abc", resp.Token)
	assert.Equal(t, domain.ID("12"), resp.ResolvedUserID())
	_, parseErr := uuid.Parse(rec.RequestID)
	assert.NoError(t, parseErr, "X-Request-ID should be a uuid")
}

func TestClient_GetUserProfile(t *testing.T) {
	srv, rec := fakeBackend(t, http.StatusOK, map[string]any{
		"id":        "u-1",
		"username":  "sipho",
		"user_role": "user",
		"allergies": []map[string]any{{"name": "Pollen"}, {"name": "Dust"}},
	})

	user, err := testClient(srv.URL).GetUserProfile(context.Background(), testToken, "u-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/profile/u-1", rec.Path)
	assert.Equal(t, "Bearer "+testToken, rec.Auth)
	assert.Equal(t, "sipho", user.Username)
	assert.Len(t, user.Allergies, 2)
}

func TestClient_UserAllergies(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, map[string]any{
		"id":        7,
		"allergies": []map[string]any{{"name": "Grass"}},
	})

	allergies, err := testClient(srv.URL).UserAllergies(context.Background(), testToken, "7")
	require.NoError(t, err)
	assert.Equal(t, []domain.UserAllergy{{Name: "Grass"}}, allergies)
}

func TestClient_EndpointRouting(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		path   string
		auth   bool
	}{
		{"register", func(c *Client) error { _, err := c.RegisterUser(ctx, domain.Registration{Username: "a"}); return err }, http.MethodPost, "/users/register", false},
		{"update profile", func(c *Client) error { _, err := c.UpdateUserProfile(ctx, testToken, "3", domain.User{}); return err }, http.MethodPut, "/profile/3", true},
		{"delete profile", func(c *Client) error { return c.DeleteUserProfile(ctx, testToken, "3") }, http.MethodDelete, "/profile/3", true},
		{"all trips", func(c *Client) error { _, err := c.GetAllTrips(ctx, testToken); return err }, http.MethodGet, "/trips", true},
		{"user trips", func(c *Client) error { _, err := c.GetTripsByUserID(ctx, testToken, "3"); return err }, http.MethodGet, "/trips/user/3", true},
		{"trip", func(c *Client) error { _, err := c.GetTripByID(ctx, testToken, "9"); return err }, http.MethodGet, "/trips/9", true},
		{"create trip", func(c *Client) error { _, err := c.CreateTrip(ctx, testToken, domain.Trip{Title: "x"}); return err }, http.MethodPost, "/trips", true},
		{"update trip", func(c *Client) error { _, err := c.UpdateTrip(ctx, testToken, "9", domain.Trip{}); return err }, http.MethodPut, "/trips/9", true},
		{"delete trip", func(c *Client) error { return c.DeleteTrip(ctx, testToken, "9") }, http.MethodDelete, "/trips/9", true},
		{"budgets", func(c *Client) error { _, err := c.GetBudgets(ctx, testToken); return err }, http.MethodGet, "/budgets", true},
		{"trip budget", func(c *Client) error { _, err := c.GetBudgetByTripID(ctx, testToken, "9"); return err }, http.MethodGet, "/budgets/9", true},
		{"add budget", func(c *Client) error { _, err := c.AddBudget(ctx, testToken, domain.Budget{}); return err }, http.MethodPost, "/budgets", true},
		{"add destination", func(c *Client) error { _, err := c.AddDestination(ctx, testToken, domain.Destination{}); return err }, http.MethodPost, "/destinations", true},
		{"user destinations", func(c *Client) error { _, err := c.GetDestinationsByUserID(ctx, testToken, "3"); return err }, http.MethodGet, "/destinations/user/3", true},
		{"destination", func(c *Client) error { _, err := c.GetDestinationByID(ctx, testToken, "4"); return err }, http.MethodGet, "/destinations/4", true},
		{"delete destination", func(c *Client) error { return c.DeleteDestination(ctx, testToken, "4") }, http.MethodDelete, "/destinations/4", true},
		{"add review", func(c *Client) error { _, err := c.AddReview(ctx, testToken, domain.Review{}); return err }, http.MethodPost, "/reviews", true},
		{"admin stats", func(c *Client) error { _, err := c.GetAdminStats(ctx, testToken); return err }, http.MethodGet, "/admin/stats", true},
		{"admin users", func(c *Client) error { _, err := c.GetAllUsers(ctx, testToken); return err }, http.MethodGet, "/admin/users", true},
		{"admin trips", func(c *Client) error { _, err := c.GetAllTripsForAdmin(ctx, testToken); return err }, http.MethodGet, "/admin/trips", true},
		{"admin activity", func(c *Client) error { return c.LogAdminActivity(ctx, domain.Activity{Action: "view"}) }, http.MethodPost, "/admin/activity", false},
		{"create alert", func(c *Client) error { _, err := c.CreateAlert(ctx, testToken, domain.Alert{}); return err }, http.MethodPost, "/alerts", true},
		{"user alerts", func(c *Client) error { _, err := c.GetUserAlerts(ctx, testToken, "3"); return err }, http.MethodGet, "/alerts/user/3", true},
		{"mark seen", func(c *Client) error { return c.MarkAlertAsSeen(ctx, testToken, "5") }, http.MethodPatch, "/alerts/seen/5", true},
		{"delete alert", func(c *Client) error { return c.DeleteAlert(ctx, testToken, "5") }, http.MethodDelete, "/alerts/5", true},
		{"unseen count", func(c *Client) error { _, err := c.GetUnseenAlertCount(ctx, testToken, "3"); return err }, http.MethodGet, "/alerts/user/3/unseen-count", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := fakeBackend(t, http.StatusNoContent, nil)

			require.NoError(t, tt.call(testClient(srv.URL)))
			assert.Equal(t, tt.method, rec.Method)
			assert.Equal(t, tt.path, rec.Path)
			if tt.auth {
				assert.Equal(t, "Bearer "+testToken, rec.Auth)
			} else {
				assert.Empty(t, rec.Auth)
			}
		})
	}
}

func TestClient_EscapesPathIDs(t *testing.T) {
	srv, rec := fakeBackend(t, http.StatusOK, map[string]any{"id": "a/b"})

	_, err := testClient(srv.URL).GetTripByID(context.Background(), testToken, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/trips/a%2Fb", rec.Path)
}

func TestClient_UnseenAlertCount(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, map[string]any{"count": 4})

	n, err := testClient(srv.URL).GetUnseenAlertCount(context.Background(), testToken, "3")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusUnauthorized, map[string]string{"message": "Not Authorized"})

	_, err := testClient(srv.URL).GetUserProfile(context.Background(), "bad-token", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "/profile/1", apiErr.Path)
	assert.Contains(t, apiErr.Body, "Not Authorized")
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusNotFound, nil)

	_, err := testClient(srv.URL).GetDestinationByID(context.Background(), testToken, "404")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(fmt.Errorf("wrapped: %w", err)))
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetAllTrips(context.Background(), testToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode list_trips response")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, observability.NewMetricsForTesting(), discardLogger())

	_, err := c.GetAllTrips(context.Background(), testToken)
	require.Error(t, err)
}

func TestClient_RecordsMetrics(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, []any{})
	c := testClient(srv.URL)

	_, err := c.GetAllTrips(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.BackendRequests.WithLabelValues("list_trips", "success")))
}
