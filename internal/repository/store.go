package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store bundles the per-record repositories. A Store built from *sqlx.DB
// reads auto-committed; InTx rebinds every repository to one transaction so
// a whole operation commits or rolls back as a unit.
type Store struct {
	db *sqlx.DB

	Program  ProgramStateRepository
	Profiles UserProfileRepository
	Goals    GoalRepository
	Accounts HoldingAccountRepository
	Reports  GoalReportRepository
	Events   EventRepository
}

func NewStore(db *sqlx.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(ext sqlx.Ext) *Store {
	return &Store{
		Program:  NewProgramStateRepository(ext),
		Profiles: NewUserProfileRepository(ext),
		Goals:    NewGoalRepository(ext),
		Accounts: NewHoldingAccountRepository(ext),
		Reports:  NewGoalReportRepository(ext),
		Events:   NewEventRepository(ext),
	}
}

// InTx runs fn against a transaction-bound Store. Any error from fn rolls
// the transaction back and is returned unchanged so callers can match
// sentinel errors.
func (s *Store) InTx(fn func(tx *Store) error) error {
	if s.db == nil {
		return fmt.Errorf("store is already transaction-bound")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(newStore(tx))
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
