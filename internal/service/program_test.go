package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/repository"
)

func TestBootstrap(t *testing.T) {
	env := newTestEnv(t)

	state, err := env.programs.Bootstrap(testAuthority, keys.DefaultBump)
	require.NoError(t, err)

	assert.Equal(t, testAuthority, state.Authority)
	assert.Equal(t, keys.WellnessPool(keys.DefaultBump), state.WellnessPool)
	assert.Equal(t, int64(0), state.TotalStaked)

	// The pool holding account exists, empty and self-owned
	pool, err := env.programs.Account(state.WellnessPool)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pool.Balance)
	assert.Equal(t, pool.Address, pool.Owner)
}

func TestBootstrapIsSingleton(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.programs.Bootstrap(testAuthority, keys.DefaultBump)
	require.NoError(t, err)

	_, err = env.programs.Bootstrap("someoneelse11111", keys.DefaultBump)
	assert.ErrorIs(t, err, ErrProgramExists)
}

func TestStateBeforeBootstrap(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.programs.State()
	assert.ErrorIs(t, err, ErrProgramNotInitialized)
}

// fundPool forfeits a goal so the wellness pool holds amount units.
func (e *testEnv) fundPool(t *testing.T, amount int64) {
	t.Helper()

	goal, err := e.goals.Stake(alice, StakeParams{Amount: amount, LimitMinutes: 60, DurationDays: 2})
	require.NoError(t, err)

	e.clock.Advance(2*24*time.Hour + time.Second)

	result, err := e.goals.Finalize(goal.Address)
	require.NoError(t, err)
	require.False(t, result.Completed)
}

func TestDistributeRewards(t *testing.T) {
	env := bootstrapped(t)
	env.createFundedUser(t, bob, 0)
	env.fundPool(t, 1000)

	events, err := env.programs.DistributeRewards(testAuthority, []string{alice, bob}, []int64{600, 300})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventRewardDistributed, events[0].Kind)

	assert.Equal(t, int64(100), env.balance(t, env.poolAddress(t)))
	assert.Equal(t, int64(9600), env.balance(t, keys.UserVault(alice))) // 10000 - 1000 forfeited + 600
	assert.Equal(t, int64(300), env.balance(t, keys.UserVault(bob)))
}

func TestDistributeRewardsValidation(t *testing.T) {
	env := bootstrapped(t)
	env.fundPool(t, 1000)

	_, err := env.programs.DistributeRewards(testAuthority, []string{alice, bob}, []int64{100})
	assert.ErrorIs(t, err, ErrMismatchedArrays)

	_, err = env.programs.DistributeRewards(testAuthority, []string{alice}, []int64{0})
	assert.ErrorIs(t, err, ErrInvalidRewardAmount)

	_, err = env.programs.DistributeRewards(alice, []string{alice}, []int64{100})
	assert.ErrorIs(t, err, ErrUnauthorizedAuthority)

	_, err = env.programs.DistributeRewards(testAuthority, []string{alice}, []int64{5000})
	assert.ErrorIs(t, err, ErrInsufficientPool)

	// Pool untouched by any rejected distribution
	assert.Equal(t, int64(1000), env.balance(t, env.poolAddress(t)))
}

func TestDistributeRewardsTotalOverflow(t *testing.T) {
	env := bootstrapped(t)
	env.fundPool(t, 1000)

	// Individually positive amounts whose sum wraps int64: the request is
	// rejected outright rather than slipping past the pool sufficiency check.
	huge := int64(1) << 62
	_, err := env.programs.DistributeRewards(testAuthority, []string{alice, alice, alice}, []int64{huge, huge, huge})
	assert.ErrorIs(t, err, ErrInvalidRewardAmount)

	assert.Equal(t, int64(1000), env.balance(t, env.poolAddress(t)))
	assert.Equal(t, int64(9000), env.balance(t, keys.UserVault(alice)))
}

func TestDistributeRewardsUnknownRecipientRollsBack(t *testing.T) {
	env := bootstrapped(t)
	env.fundPool(t, 1000)

	// alice is valid, the second recipient has no profile: nothing settles
	_, err := env.programs.DistributeRewards(testAuthority, []string{alice, "ghost11111111111"}, []int64{200, 200})
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	assert.Equal(t, int64(1000), env.balance(t, env.poolAddress(t)))
	assert.Equal(t, int64(9000), env.balance(t, keys.UserVault(alice)))
}

func TestFundFaucet(t *testing.T) {
	env := bootstrapped(t)

	err := env.programs.Fund(testAuthority, alice, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(10500), env.balance(t, keys.UserVault(alice)))

	err = env.programs.Fund(alice, alice, 500)
	assert.ErrorIs(t, err, ErrUnauthorizedAuthority)

	err = env.programs.Fund(testAuthority, alice, 0)
	assert.ErrorIs(t, err, ErrInvalidRewardAmount)
}

func TestFundFaucetDisabled(t *testing.T) {
	env := bootstrapped(t)
	env.programs.faucetEnabled = false

	err := env.programs.Fund(testAuthority, alice, 500)
	assert.ErrorIs(t, err, ErrFaucetDisabled)
}
