package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/detoxmine/detoxmine/internal/db"
	"github.com/detoxmine/detoxmine/internal/event"
	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/repository"
)

const (
	testAuthority = "admin11111111111"
	alice         = "alice11111111111"
	bob           = "bob1111111111111"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testEnv struct {
	store    *repository.Store
	clock    *fakeClock
	emitter  *event.Emitter
	programs *ProgramService
	profiles *ProfileService
	goals    *GoalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	store := repository.NewStore(database)

	emitter, err := event.NewEmitter("", "")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Unix(1700000000, 0)}

	notify := NewNotifyService("", "noreply@example.com", "DetoxMine", true)

	programs := NewProgramService(store, emitter, true)
	programs.now = clock.Now

	profiles := NewProfileService(store)
	profiles.now = clock.Now

	goals := NewGoalService(store, emitter, notify)
	goals.now = clock.Now

	return &testEnv{
		store:    store,
		clock:    clock,
		emitter:  emitter,
		programs: programs,
		profiles: profiles,
		goals:    goals,
	}
}

// bootstrapped returns an env with the program initialized and a funded
// profile for alice.
func bootstrapped(t *testing.T) *testEnv {
	t.Helper()

	env := newTestEnv(t)

	_, err := env.programs.Bootstrap(testAuthority, keys.DefaultBump)
	require.NoError(t, err)

	env.createFundedUser(t, alice, 10000)

	return env
}

func (e *testEnv) createFundedUser(t *testing.T, user string, amount int64) {
	t.Helper()

	_, err := e.profiles.Create(user, "")
	require.NoError(t, err)

	if amount > 0 {
		err = e.programs.Fund(testAuthority, user, amount)
		require.NoError(t, err)
	}
}

func (e *testEnv) balance(t *testing.T, address string) int64 {
	t.Helper()

	account, err := e.store.Accounts.ByAddress(address)
	require.NoError(t, err)
	return account.Balance
}

func (e *testEnv) poolAddress(t *testing.T) string {
	t.Helper()

	state, err := e.programs.State()
	require.NoError(t, err)
	return state.WellnessPool
}
