package model

import (
	"time"
)

// HoldingAccount is a fungible-unit balance container. User vaults are
// owned by the user identity; escrow and pool accounts are self-owned so
// that no external key ever has withdrawal rights over them.
type HoldingAccount struct {
	Address   string    `db:"address"`
	Owner     string    `db:"owner"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
