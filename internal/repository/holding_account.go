package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

var (
	ErrAccountNotFound     = errors.New("holding account not found")
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

type HoldingAccountRepository interface {
	Create(account *model.HoldingAccount) error
	ByAddress(address string) (*model.HoldingAccount, error)
	Credit(address string, amount int64) error
	Debit(address string, amount int64) error
}

type holdingAccountRepository struct {
	ext sqlx.Ext
}

func NewHoldingAccountRepository(ext sqlx.Ext) HoldingAccountRepository {
	return &holdingAccountRepository{ext: ext}
}

func (r *holdingAccountRepository) Create(account *model.HoldingAccount) error {
	query := `INSERT INTO holding_accounts (address, owner, balance, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.ext.Exec(query,
		account.Address,
		account.Owner,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

func (r *holdingAccountRepository) ByAddress(address string) (*model.HoldingAccount, error) {
	account := &model.HoldingAccount{}
	query := `SELECT * FROM holding_accounts WHERE address = $1`

	err := sqlx.Get(r.ext, account, query, address)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *holdingAccountRepository) Credit(address string, amount int64) error {
	query := `UPDATE holding_accounts SET balance = balance + $1, updated_at = $2 WHERE address = $3`

	result, err := r.ext.Exec(query, amount, time.Now(), address)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Debit decrements a balance. The balance guard is in the WHERE clause so a
// concurrent debit can never take the balance negative.
func (r *holdingAccountRepository) Debit(address string, amount int64) error {
	query := `UPDATE holding_accounts SET balance = balance - $1, updated_at = $2
	          WHERE address = $3 AND balance >= $1`

	result, err := r.ext.Exec(query, amount, time.Now(), address)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		// Distinguish a missing account from an underfunded one
		_, err = r.ByAddress(address)
		if err != nil {
			return err
		}
		return ErrInsufficientBalance
	}

	return nil
}
