package backend

import (
	"context"
	"net/http"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

// GetAllTrips lists trips visible to the token holder.
func (c *Client) GetAllTrips(ctx context.Context, token string) ([]domain.Trip, error) {
	var out []domain.Trip
	err := c.do(ctx, request{endpoint: "list_trips", method: http.MethodGet, path: "/trips", token: token}, &out)
	return out, err
}

// GetTripsByUserID lists the trips owned by userID.
func (c *Client) GetTripsByUserID(ctx context.Context, token string, userID domain.ID) ([]domain.Trip, error) {
	var out []domain.Trip
	err := c.do(ctx, request{
		endpoint: "list_user_trips",
		method:   http.MethodGet,
		path:     pathf("/trips/user/%s", userID.String()),
		token:    token,
	}, &out)
	return out, err
}

// GetTripByID fetches a single trip.
func (c *Client) GetTripByID(ctx context.Context, token string, tripID domain.ID) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, request{
		endpoint: "get_trip",
		method:   http.MethodGet,
		path:     pathf("/trips/%s", tripID.String()),
		token:    token,
	}, &out)
	return out, err
}

// CreateTrip stores a new trip.
func (c *Client) CreateTrip(ctx context.Context, token string, trip domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, request{endpoint: "create_trip", method: http.MethodPost, path: "/trips", token: token, body: trip}, &out)
	return out, err
}

// UpdateTrip replaces the trip tripID.
func (c *Client) UpdateTrip(ctx context.Context, token string, tripID domain.ID, trip domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, request{
		endpoint: "update_trip",
		method:   http.MethodPut,
		path:     pathf("/trips/%s", tripID.String()),
		token:    token,
		body:     trip,
	}, &out)
	return out, err
}

// DeleteTrip removes the trip tripID.
func (c *Client) DeleteTrip(ctx context.Context, token string, tripID domain.ID) error {
	return c.do(ctx, request{
		endpoint: "delete_trip",
		method:   http.MethodDelete,
		path:     pathf("/trips/%s", tripID.String()),
		token:    token,
	}, nil)
}

// GetBudgets lists budgets visible to the token holder.
func (c *Client) GetBudgets(ctx context.Context, token string) ([]domain.Budget, error) {
	var out []domain.Budget
	err := c.do(ctx, request{endpoint: "list_budgets", method: http.MethodGet, path: "/budgets", token: token}, &out)
	return out, err
}

// GetBudgetByTripID fetches the budget attached to tripID.
func (c *Client) GetBudgetByTripID(ctx context.Context, token string, tripID domain.ID) (domain.Budget, error) {
	var out domain.Budget
	err := c.do(ctx, request{
		endpoint: "get_trip_budget",
		method:   http.MethodGet,
		path:     pathf("/budgets/%s", tripID.String()),
		token:    token,
	}, &out)
	return out, err
}

// AddBudget stores a budget.
func (c *Client) AddBudget(ctx context.Context, token string, budget domain.Budget) (domain.Budget, error) {
	var out domain.Budget
	err := c.do(ctx, request{endpoint: "add_budget", method: http.MethodPost, path: "/budgets", token: token, body: budget}, &out)
	return out, err
}

// AddDestination stores a destination.
func (c *Client) AddDestination(ctx context.Context, token string, dest domain.Destination) (domain.Destination, error) {
	var out domain.Destination
	err := c.do(ctx, request{endpoint: "add_destination", method: http.MethodPost, path: "/destinations", token: token, body: dest}, &out)
	return out, err
}

// GetDestinationsByUserID lists the destinations saved by userID.
func (c *Client) GetDestinationsByUserID(ctx context.Context, token string, userID domain.ID) ([]domain.Destination, error) {
	var out []domain.Destination
	err := c.do(ctx, request{
		endpoint: "list_user_destinations",
		method:   http.MethodGet,
		path:     pathf("/destinations/user/%s", userID.String()),
		token:    token,
	}, &out)
	return out, err
}

// GetDestinationByID fetches a single destination.
func (c *Client) GetDestinationByID(ctx context.Context, token string, destID domain.ID) (domain.Destination, error) {
	var out domain.Destination
	err := c.do(ctx, request{
		endpoint: "get_destination",
		method:   http.MethodGet,
		path:     pathf("/destinations/%s", destID.String()),
		token:    token,
	}, &out)
	return out, err
}

// DeleteDestination removes the destination destID.
func (c *Client) DeleteDestination(ctx context.Context, token string, destID domain.ID) error {
	return c.do(ctx, request{
		endpoint: "delete_destination",
		method:   http.MethodDelete,
		path:     pathf("/destinations/%s", destID.String()),
		token:    token,
	}, nil)
}

// AddReview stores a destination review.
func (c *Client) AddReview(ctx context.Context, token string, review domain.Review) (domain.Review, error) {
	var out domain.Review
	err := c.do(ctx, request{endpoint: "add_review", method: http.MethodPost, path: "/reviews", token: token, body: review}, &out)
	return out, err
}
