package user

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeededDirectoryDemoAccount(t *testing.T) {
	dir := NewSeededDirectory()

	p, err := dir.GetByUsername(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", p.Username)
	assert.False(t, p.Disabled)

	// The seeded hash corresponds to the demo password
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.HashedPassword), []byte("secret")))
}

func TestGetByUsernameNotFound(t *testing.T) {
	dir := NewSeededDirectory()

	_, err := dir.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestGetByUsernameReturnsCopy tests that mutating the returned principal does
// not leak back into the directory
func TestGetByUsernameReturnsCopy(t *testing.T) {
	dir := NewSeededDirectory()
	ctx := context.Background()

	first, err := dir.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	first.Disabled = true

	second, err := dir.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	assert.False(t, second.Disabled)
}

func TestPrincipalHashNotSerialized(t *testing.T) {
	p := Principal{Username: "johndoe", HashedPassword: "hash"}

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
}
