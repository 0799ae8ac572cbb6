package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/token"
)

var (
	ErrProfileExists = errors.New("profile already exists for user")
)

// ProfileService creates and reads participant profiles. Exactly one
// profile per user identity; the profile address is derived from it.
type ProfileService struct {
	store *repository.Store

	now func() time.Time
}

func NewProfileService(store *repository.Store) *ProfileService {
	return &ProfileService{
		store: store,
		now:   time.Now,
	}
}

// Create makes the caller's profile and vault. notifyEmail is optional.
func (s *ProfileService) Create(userAddress, notifyEmail string) (*model.UserProfile, error) {
	var profile *model.UserProfile

	err := s.store.InTx(func(tx *repository.Store) error {
		_, err := tx.Profiles.ByUser(userAddress)
		if err == nil {
			return ErrProfileExists
		}
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return err
		}

		now := s.now()

		err = tx.Accounts.Create(token.NewAccount(keys.UserVault(userAddress), userAddress, now))
		if err != nil {
			return fmt.Errorf("failed to create vault: %w", err)
		}

		profile = &model.UserProfile{
			Address:      keys.UserProfile(userAddress),
			UserAddress:  userAddress,
			LastActivity: now.Unix(),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if notifyEmail != "" {
			profile.NotifyEmail = &notifyEmail
		}

		return tx.Profiles.Create(profile)
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// ByAddress looks a profile up by its record address.
func (s *ProfileService) ByAddress(address string) (*model.UserProfile, error) {
	return s.store.Profiles.ByAddress(address)
}

// ByUser looks a profile up by the participant identity.
func (s *ProfileService) ByUser(userAddress string) (*model.UserProfile, error) {
	return s.store.Profiles.ByUser(userAddress)
}
