package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/detoxmine/detoxmine/internal/event"
	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/token"
)

var (
	ErrProgramExists         = errors.New("program already initialized")
	ErrProgramNotInitialized = errors.New("program not initialized")
	ErrUnauthorizedAuthority = errors.New("caller is not the program authority")
	ErrMismatchedArrays      = errors.New("recipients and amounts length mismatch")
	ErrInvalidRewardAmount   = errors.New("reward amount must be positive")
	ErrInsufficientPool      = errors.New("pool balance below distribution total")
	ErrFaucetDisabled        = errors.New("faucet is disabled")
)

// ProgramService owns the singleton program record, the communal pool, and
// the admin-only operations against them.
type ProgramService struct {
	store         *repository.Store
	emitter       *event.Emitter
	faucetEnabled bool

	now func() time.Time
}

func NewProgramService(store *repository.Store, emitter *event.Emitter, faucetEnabled bool) *ProgramService {
	return &ProgramService{
		store:         store,
		emitter:       emitter,
		faucetEnabled: faucetEnabled,
		now:           time.Now,
	}
}

// Bootstrap creates the program singleton and its pool holding account.
// The authenticated caller becomes the program authority. Runs once; a
// second call fails with ErrProgramExists.
func (s *ProgramService) Bootstrap(authority string, poolBump byte) (*model.ProgramState, error) {
	var state *model.ProgramState

	err := s.store.InTx(func(tx *repository.Store) error {
		_, err := tx.Program.Get()
		if err == nil {
			return ErrProgramExists
		}
		if !errors.Is(err, repository.ErrProgramStateNotFound) {
			return err
		}

		now := s.now()
		poolAddress := keys.WellnessPool(poolBump)

		// The pool owns itself: only distribution code can move it
		err = tx.Accounts.Create(token.NewAccount(poolAddress, poolAddress, now))
		if err != nil {
			return fmt.Errorf("failed to create pool account: %w", err)
		}

		state = &model.ProgramState{
			ID:               1,
			Address:          keys.ProgramState(),
			Authority:        authority,
			WellnessPool:     poolAddress,
			WellnessPoolBump: poolBump,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		return tx.Program.Create(state)
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// State returns the program singleton with its running totals.
func (s *ProgramService) State() (*model.ProgramState, error) {
	state, err := s.store.Program.Get()
	if errors.Is(err, repository.ErrProgramStateNotFound) {
		return nil, ErrProgramNotInitialized
	}
	return state, err
}

// DistributeRewards settles pool rewards to recipients. Authority only.
// The whole list lands in one transaction: a single bad recipient or an
// underfunded pool rejects the entire distribution.
func (s *ProgramService) DistributeRewards(caller string, recipients []string, amounts []int64) ([]*model.Event, error) {
	if len(recipients) != len(amounts) {
		return nil, ErrMismatchedArrays
	}

	var total int64
	for _, amount := range amounts {
		if amount <= 0 {
			return nil, ErrInvalidRewardAmount
		}
		if amount > math.MaxInt64-total {
			return nil, ErrInvalidRewardAmount
		}
		total += amount
	}

	var events []*model.Event

	err := s.store.InTx(func(tx *repository.Store) error {
		state, err := tx.Program.Get()
		if errors.Is(err, repository.ErrProgramStateNotFound) {
			return ErrProgramNotInitialized
		}
		if err != nil {
			return err
		}

		if caller != state.Authority {
			return ErrUnauthorizedAuthority
		}

		pool, err := tx.Accounts.ByAddress(state.WellnessPool)
		if err != nil {
			return err
		}
		if pool.Balance < total {
			return ErrInsufficientPool
		}

		now := s.now()
		for i, recipient := range recipients {
			// Recipients must have a profile; the vault is created with it
			_, err = tx.Profiles.ByUser(recipient)
			if err != nil {
				return err
			}

			err = token.Transfer(tx.Accounts, state.WellnessPool, keys.UserVault(recipient), amounts[i], state.WellnessPool)
			if err != nil {
				return err
			}

			evt, err := event.Record(model.EventRewardDistributed, recipient, event.RewardDistributed{
				Recipient: recipient,
				Amount:    amounts[i],
			}, now)
			if err != nil {
				return err
			}
			err = tx.Events.Create(evt)
			if err != nil {
				return err
			}
			events = append(events, evt)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.PublishAll(events)
	return events, nil
}

// Fund mints units into a user's vault. Development faucet only, gated on
// the program authority; production config refuses to enable it.
func (s *ProgramService) Fund(caller, userAddress string, amount int64) error {
	if !s.faucetEnabled {
		return ErrFaucetDisabled
	}
	if amount <= 0 {
		return ErrInvalidRewardAmount
	}

	return s.store.InTx(func(tx *repository.Store) error {
		state, err := tx.Program.Get()
		if errors.Is(err, repository.ErrProgramStateNotFound) {
			return ErrProgramNotInitialized
		}
		if err != nil {
			return err
		}

		if caller != state.Authority {
			return ErrUnauthorizedAuthority
		}

		return token.Mint(tx.Accounts, keys.UserVault(userAddress), amount)
	})
}

// Account returns a holding-account balance by address.
func (s *ProgramService) Account(address string) (*model.HoldingAccount, error) {
	return s.store.Accounts.ByAddress(address)
}
