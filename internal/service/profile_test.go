package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/repository"
)

func TestCreateProfile(t *testing.T) {
	env := newTestEnv(t)

	profile, err := env.profiles.Create(alice, "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, alice, profile.UserAddress)
	assert.Equal(t, keys.UserProfile(alice), profile.Address)
	require.NotNil(t, profile.NotifyEmail)
	assert.Equal(t, "alice@example.com", *profile.NotifyEmail)
	assert.Equal(t, 0, profile.GoalsCompleted)

	// The profile's vault comes with it, empty and owned by the user
	vault, err := env.store.Accounts.ByAddress(keys.UserVault(alice))
	require.NoError(t, err)
	assert.Equal(t, int64(0), vault.Balance)
	assert.Equal(t, alice, vault.Owner)
}

func TestCreateProfileWithoutEmail(t *testing.T) {
	env := newTestEnv(t)

	profile, err := env.profiles.Create(alice, "")
	require.NoError(t, err)
	assert.Nil(t, profile.NotifyEmail)
	assert.False(t, profile.WantsEmail())
}

func TestCreateProfileTwice(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.profiles.Create(alice, "")
	require.NoError(t, err)

	_, err = env.profiles.Create(alice, "")
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestProfileLookups(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.profiles.Create(alice, "")
	require.NoError(t, err)

	byUser, err := env.profiles.ByUser(alice)
	require.NoError(t, err)
	assert.Equal(t, created.Address, byUser.Address)

	byAddress, err := env.profiles.ByAddress(created.Address)
	require.NoError(t, err)
	assert.Equal(t, alice, byAddress.UserAddress)

	_, err = env.profiles.ByUser(bob)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}
