package fphash_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psucodervn/atlaspacker/internal/fphash"
)

func TestCombineIsDeterministic(t *testing.T) {
	h1 := fphash.CombineString(0, "alpha")
	h1 = fphash.CombineString(h1, "beta")

	h2 := fphash.CombineString(0, "alpha")
	h2 = fphash.CombineString(h2, "beta")

	require.Equal(t, h1, h2)
}

func TestCombineIsOrderSensitive(t *testing.T) {
	h1 := fphash.CombineString(0, "alpha")
	h1 = fphash.CombineString(h1, "beta")

	h2 := fphash.CombineString(0, "beta")
	h2 = fphash.CombineString(h2, "alpha")

	require.NotEqual(t, h1, h2)
}

func TestHashStringStable(t *testing.T) {
	require.Equal(t, fphash.HashString("hello"), fphash.HashString("hello"))
	require.NotEqual(t, fphash.HashString("hello"), fphash.HashString("world"))
}
