// Package keys derives deterministic record addresses.
//
// An address is the hex encoding of a BLAKE2b-256 digest over a
// domain-separating label, the seed parts, and a trailing bump byte.
// Any indexer that knows the label layout can relocate records without
// a separate index.
package keys

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DefaultBump is the nonce byte used unless a caller supplies its own
// (the bootstrap operation accepts an explicit pool bump).
const DefaultBump byte = 255

const (
	labelProgramState = "program_state"
	labelWellnessPool = "wellness_pool"
	labelUserProfile  = "user_profile"
	labelUserVault    = "user_vault"
	labelGoal         = "goal"
	labelEscrow       = "escrow"
)

// Derive computes an address from a label, seed parts, and a bump byte.
func Derive(label string, bump byte, seeds ...[]byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(label))
	for _, seed := range seeds {
		h.Write([]byte{0}) // separator so seed boundaries are unambiguous
		h.Write(seed)
	}
	h.Write([]byte{0, bump})
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramState returns the address of the singleton program record.
func ProgramState() string {
	return Derive(labelProgramState, DefaultBump)
}

// WellnessPool returns the communal pool holding account address for a bump.
func WellnessPool(bump byte) string {
	return Derive(labelWellnessPool, bump)
}

// UserProfile returns the profile record address for a user identity.
func UserProfile(user string) string {
	return Derive(labelUserProfile, DefaultBump, []byte(user))
}

// UserVault returns the user's own holding account address.
func UserVault(user string) string {
	return Derive(labelUserVault, DefaultBump, []byte(user))
}

// Goal returns a goal record address, disambiguated by its start time.
func Goal(staker string, startTime int64) string {
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(startTime))
	return Derive(labelGoal, DefaultBump, []byte(staker), ts[:])
}

// Escrow returns the escrow holding account address for a goal.
func Escrow(goalAddress string, bump byte) string {
	return Derive(labelEscrow, bump, []byte(goalAddress))
}
