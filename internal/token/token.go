// Package token is the fungible-unit transfer primitive. It moves value
// between holding accounts and is the only code path that touches two
// balances at once.
package token

import (
	"errors"
	"time"

	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/repository"
)

var (
	ErrUnauthorizedTransfer = errors.New("authority does not own source account")
	ErrInvalidAmount        = errors.New("transfer amount must be positive")
)

// Transfer moves amount from one holding account to another. The authority
// must be the owner of the source account. Escrow and pool accounts are
// self-owned, so only code that derives their address can authorize an
// outbound transfer; no API caller can ever present that authority.
//
// Callers are expected to pass transaction-bound repositories so the debit
// and credit land atomically.
func Transfer(accounts repository.HoldingAccountRepository, from, to string, amount int64, authority string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	source, err := accounts.ByAddress(from)
	if err != nil {
		return err
	}

	if source.Owner != authority {
		return ErrUnauthorizedTransfer
	}

	err = accounts.Debit(from, amount)
	if err != nil {
		return err
	}

	return accounts.Credit(to, amount)
}

// Mint credits freshly created units into an account. Only the development
// faucet uses it; the service layer gates it behind the program authority.
func Mint(accounts repository.HoldingAccountRepository, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return accounts.Credit(to, amount)
}

// NewAccount builds a holding-account row. Self-owned accounts (escrow,
// pool) pass their own address as owner.
func NewAccount(address, owner string, now time.Time) *model.HoldingAccount {
	return &model.HoldingAccount{
		Address:   address,
		Owner:     owner,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
