package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDeterministic(t *testing.T) {
	a := Derive("goal", DefaultBump, []byte("alice"))
	b := Derive("goal", DefaultBump, []byte("alice"))

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex of 32 bytes
}

func TestDeriveDomainSeparation(t *testing.T) {
	base := Derive("goal", DefaultBump, []byte("alice"))

	assert.NotEqual(t, base, Derive("escrow", DefaultBump, []byte("alice")))
	assert.NotEqual(t, base, Derive("goal", 254, []byte("alice")))
	assert.NotEqual(t, base, Derive("goal", DefaultBump, []byte("bob")))
}

func TestDeriveSeedBoundaries(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc"
	a := Derive("goal", DefaultBump, []byte("ab"), []byte("c"))
	b := Derive("goal", DefaultBump, []byte("a"), []byte("bc"))

	assert.NotEqual(t, a, b)
}

func TestGoalAddressVariesByStartTime(t *testing.T) {
	a := Goal("alice", 1700000000)
	b := Goal("alice", 1700000001)

	assert.NotEqual(t, a, b)
}

func TestEscrowTiedToGoal(t *testing.T) {
	goalA := Goal("alice", 1700000000)
	goalB := Goal("bob", 1700000000)

	assert.NotEqual(t, Escrow(goalA, DefaultBump), Escrow(goalB, DefaultBump))
}
