package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore() *Store {
	return NewStore(clockwork.NewFakeClock(), discardLogger())
}

// --- fakes ---

type fakeProfileAPI struct {
	user    domain.User
	err     error
	gotTok  string
	gotUser domain.ID
}

func (f *fakeProfileAPI) GetUserProfile(_ context.Context, token string, userID domain.ID) (domain.User, error) {
	f.gotTok = token
	f.gotUser = userID
	return f.user, f.err
}

type fakeAdminAPI struct {
	mu       sync.Mutex
	users    []domain.User
	trips    []domain.Trip
	usersErr error
	tripsErr error
	tokens   []string
}

func (f *fakeAdminAPI) GetAllUsers(_ context.Context, token string) ([]domain.User, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	return f.users, f.usersErr
}

func (f *fakeAdminAPI) GetAllTripsForAdmin(_ context.Context, token string) ([]domain.Trip, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	return f.trips, f.tripsErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// --- state ---

func TestStore_InitialState(t *testing.T) {
	s := newTestStore()

	assert.False(t, s.IsLoggedIn())
	assert.False(t, s.IsAdmin())
	assert.Nil(t, s.User())
	assert.Empty(t, s.UserID())
}

func TestStore_Mutations(t *testing.T) {
	s := newTestStore()

	s.SetToken("tok")
	s.SetUserID("42")
	s.SetUser(domain.User{ID: "42", Username: "lerato", Role: domain.RoleAdmin})

	assert.True(t, s.IsLoggedIn())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "lerato", s.User().Username)
	assert.Equal(t, domain.ID("42"), s.UserID())

	s.Logout()

	assert.False(t, s.IsLoggedIn())
	assert.False(t, s.IsAdmin())
	assert.Nil(t, s.User())
	assert.Empty(t, s.UserID())
}

func TestStore_LogoutKeepsAdminData(t *testing.T) {
	s := newTestStore()
	s.SetAdminUsers([]domain.User{{ID: "1"}})

	s.Logout()

	assert.Len(t, s.Snapshot().AdminUsers, 1)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := newTestStore()
	s.SetUser(domain.User{Username: "before"})
	s.SetAdminTrips([]domain.Trip{{Title: "Cape Town"}})

	snap := s.Snapshot()
	snap.User.Username = "after"
	snap.AdminTrips[0].Title = "changed"

	assert.Equal(t, "before", s.User().Username)
	assert.Equal(t, "Cape Town", s.Snapshot().AdminTrips[0].Title)
}

// --- persistence ---

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	s := newTestStore()
	s.SetToken("tok")
	s.SetUserID("7")
	s.SetUser(domain.User{
		ID:        "7",
		Username:  "naledi",
		Allergies: []domain.UserAllergy{{Name: "Pollen"}},
	})
	require.NoError(t, s.Save(ctx, storage))

	loaded, err := Load(ctx, storage, clockwork.NewFakeClock(), discardLogger())
	require.NoError(t, err)

	if diff := cmp.Diff(s.Snapshot(), loaded.Snapshot()); diff != "" {
		t.Errorf("loaded session mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveRemovesAbsentKeys(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, KeyAuthToken, "old"))
	require.NoError(t, storage.Set(ctx, KeyUserID, "1"))
	require.NoError(t, storage.Set(ctx, KeyUserData, `{"id":1}`))

	require.NoError(t, newTestStore().Save(ctx, storage))

	for _, key := range []string{KeyAuthToken, KeyUserID, KeyUserData} {
		_, ok, err := storage.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s should be removed", key)
	}
}

func TestLoad_Empty(t *testing.T) {
	s, err := Load(context.Background(), NewMemoryStorage(), nil, discardLogger())
	require.NoError(t, err)
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
}

func TestLoad_CorruptUserData(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, KeyAuthToken, "tok"))
	require.NoError(t, storage.Set(ctx, KeyUserData, "{not json"))

	s, err := Load(ctx, storage, nil, discardLogger())
	require.NoError(t, err)
	assert.True(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
}

type failingStorage struct{ MemoryStorage }

func (f *failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func TestLoad_StorageError(t *testing.T) {
	_, err := Load(context.Background(), &failingStorage{}, nil, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyAuthToken)
}

// --- token expiry ---

func TestStore_TokenExpiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	exp := clock.Now().Add(time.Hour)

	s := NewStore(clock, discardLogger())
	s.SetToken(signedToken(t, exp))

	got, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.False(t, s.TokenExpired())

	clock.Advance(2 * time.Hour)
	assert.True(t, s.TokenExpired())
}

func TestStore_TokenExpiry_Opaque(t *testing.T) {
	s := newTestStore()

	_, ok := s.TokenExpiry()
	assert.False(t, ok, "no token")

	s.SetToken("not-a-jwt")
	_, ok = s.TokenExpiry()
	assert.False(t, ok)
	assert.False(t, s.TokenExpired())
}

// --- FetchUser ---

func TestStore_FetchUser(t *testing.T) {
	s := newTestStore()
	s.SetToken("tok")
	s.SetUserID("9")
	api := &fakeProfileAPI{user: domain.User{ID: "9", Username: "kabelo"}}

	require.NoError(t, s.FetchUser(context.Background(), api))

	assert.Equal(t, "tok", api.gotTok)
	assert.Equal(t, domain.ID("9"), api.gotUser)
	assert.Equal(t, "kabelo", s.User().Username)
}

func TestStore_FetchUser_SkipsWithoutCredentials(t *testing.T) {
	s := newTestStore()
	s.SetToken("tok")
	api := &fakeProfileAPI{err: errors.New("should not be called")}

	require.NoError(t, s.FetchUser(context.Background(), api))
	assert.Empty(t, api.gotTok)
	assert.True(t, s.IsLoggedIn())
}

func TestStore_FetchUser_FailureLogsOut(t *testing.T) {
	s := newTestStore()
	s.SetToken("expired")
	s.SetUserID("9")
	s.SetUser(domain.User{ID: "9"})
	apiErr := errors.New("401 unauthorized")

	err := s.FetchUser(context.Background(), &fakeProfileAPI{err: apiErr})
	require.ErrorIs(t, err, apiErr)

	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
	assert.Empty(t, s.UserID())
}

// --- FetchAdminData ---

func adminStore() *Store {
	s := newTestStore()
	s.SetToken("admin-tok")
	s.SetUser(domain.User{ID: "1", Role: domain.RoleAdmin})
	return s
}

func TestStore_FetchAdminData(t *testing.T) {
	s := adminStore()
	api := &fakeAdminAPI{
		users: []domain.User{{ID: "1"}, {ID: "2"}},
		trips: []domain.Trip{{ID: "10", Title: "Durban"}},
	}

	require.NoError(t, s.FetchAdminData(context.Background(), api))

	snap := s.Snapshot()
	assert.Len(t, snap.AdminUsers, 2)
	assert.Equal(t, "Durban", snap.AdminTrips[0].Title)
	assert.False(t, snap.AdminDataLoading)
	assert.ElementsMatch(t, []string{"admin-tok", "admin-tok"}, api.tokens)
}

func TestStore_FetchAdminData_RequiresAdmin(t *testing.T) {
	s := newTestStore()
	s.SetToken("tok")
	s.SetUser(domain.User{ID: "2", Role: "user"})
	api := &fakeAdminAPI{}

	err := s.FetchAdminData(context.Background(), api)
	require.ErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, api.tokens)
}

func TestStore_FetchAdminData_Error(t *testing.T) {
	s := adminStore()
	s.SetAdminUsers([]domain.User{{ID: "stale"}})
	api := &fakeAdminAPI{tripsErr: errors.New("boom")}

	err := s.FetchAdminData(context.Background(), api)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch trips")

	snap := s.Snapshot()
	assert.False(t, snap.AdminDataLoading)
	assert.Equal(t, domain.ID("stale"), snap.AdminUsers[0].ID, "failed fetch leaves previous data")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetToken("tok")
			s.SetUser(domain.User{Role: domain.RoleAdmin})
		}()
		go func() {
			defer wg.Done()
			_ = s.IsAdmin()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.True(t, s.IsLoggedIn())
}
