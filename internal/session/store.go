package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

// ErrNotAuthorized is returned by admin actions when the session user is not
// an administrator.
var ErrNotAuthorized = errors.New("not authorized")

// ProfileAPI fetches the signed-in user's profile.
type ProfileAPI interface {
	GetUserProfile(ctx context.Context, token string, userID domain.ID) (domain.User, error)
}

// AdminAPI lists platform-wide data for administrators.
type AdminAPI interface {
	GetAllUsers(ctx context.Context, token string) ([]domain.User, error)
	GetAllTripsForAdmin(ctx context.Context, token string) ([]domain.Trip, error)
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	Token            string
	UserID           domain.ID
	User             *domain.User
	AdminUsers       []domain.User
	AdminTrips       []domain.Trip
	AdminDataLoading bool
}

// Store holds the authenticated session. Mutations are in memory only;
// persistence happens through Load and Save.
type Store struct {
	mu    sync.RWMutex
	state Snapshot

	clock  clockwork.Clock
	logger *slog.Logger
}

// NewStore returns an empty, logged-out session.
func NewStore(clock clockwork.Clock, logger *slog.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{clock: clock, logger: logger}
}

// Load builds a Store from the values persisted in storage. A corrupt user
// record is treated as absent.
func Load(ctx context.Context, storage Storage, clock clockwork.Clock, logger *slog.Logger) (*Store, error) {
	s := NewStore(clock, logger)

	token, _, err := storage.Get(ctx, KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyAuthToken, err)
	}
	userID, _, err := storage.Get(ctx, KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyUserID, err)
	}
	userData, ok, err := storage.Get(ctx, KeyUserData)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyUserData, err)
	}

	s.state.Token = token
	s.state.UserID = domain.ID(userID)
	if ok && userData != "" {
		var user domain.User
		if err := json.Unmarshal([]byte(userData), &user); err != nil {
			logger.Warn("discarding corrupt user data", "error", err)
		} else {
			s.state.User = &user
		}
	}
	return s, nil
}

// Save writes the token, user id and user record to storage, removing the
// keys whose values are absent.
func (s *Store) Save(ctx context.Context, storage Storage) error {
	snap := s.Snapshot()

	if err := saveOrRemove(ctx, storage, KeyAuthToken, snap.Token); err != nil {
		return err
	}
	if err := saveOrRemove(ctx, storage, KeyUserID, snap.UserID.String()); err != nil {
		return err
	}

	var userData string
	if snap.User != nil {
		data, err := json.Marshal(snap.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		userData = string(data)
	}
	return saveOrRemove(ctx, storage, KeyUserData, userData)
}

func saveOrRemove(ctx context.Context, storage Storage, key, value string) error {
	if value == "" {
		if err := storage.Remove(ctx, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		return nil
	}
	if err := storage.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
}

func (s *Store) SetUserID(id domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserID = id
}

func (s *Store) SetUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = &user
}

func (s *Store) SetAdminUsers(users []domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AdminUsers = slices.Clone(users)
}

func (s *Store) SetAdminTrips(trips []domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AdminTrips = slices.Clone(trips)
}

func (s *Store) SetAdminDataLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AdminDataLoading = loading
}

// Logout clears the token, user id and user. Admin data is left as is.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.UserID = ""
	s.state.User = nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) UserID() domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// IsLoggedIn reports whether a token is held.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the loaded user has the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.User.IsAdmin()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	snap.AdminUsers = slices.Clone(snap.AdminUsers)
	snap.AdminTrips = slices.Clone(snap.AdminTrips)
	return snap
}

// TokenExpiry returns the exp claim of the held token. The signature is not
// verified; the backend remains the authority on validity.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether the held token carries an exp claim in the past.
func (s *Store) TokenExpired() bool {
	exp, ok := s.TokenExpiry()
	return ok && !s.clock.Now().Before(exp)
}

// FetchUser loads the profile for the session's user id. It is a no-op when
// the token or user id is missing. On failure the session is logged out.
func (s *Store) FetchUser(ctx context.Context, api ProfileAPI) error {
	snap := s.Snapshot()
	if snap.Token == "" || snap.UserID == "" {
		return nil
	}

	user, err := api.GetUserProfile(ctx, snap.Token, snap.UserID)
	if err != nil {
		s.logger.Warn("fetch user failed, logging out",
			"user_id", snap.UserID,
			"error", err,
		)
		s.Logout()
		return fmt.Errorf("fetch user: %w", err)
	}
	s.SetUser(user)
	return nil
}

// FetchAdminData loads every user and trip concurrently. The session user
// must be an administrator.
func (s *Store) FetchAdminData(ctx context.Context, api AdminAPI) error {
	if !s.IsAdmin() {
		return ErrNotAuthorized
	}
	token := s.Token()

	s.SetAdminDataLoading(true)
	defer s.SetAdminDataLoading(false)

	var (
		users []domain.User
		trips []domain.Trip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = api.GetAllUsers(gctx, token)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trips, err = api.GetAllTripsForAdmin(gctx, token)
		if err != nil {
			return fmt.Errorf("fetch trips: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("fetch admin data failed", "error", err)
		return err
	}

	s.SetAdminUsers(users)
	s.SetAdminTrips(trips)
	return nil
}
