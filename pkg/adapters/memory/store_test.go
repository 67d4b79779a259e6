package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunBlobStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Seed(t *testing.T) {
	raw := []byte(`{"initialized":true}`)
	store := memory.Seed("state", raw)
	raw[0] = 'x'

	got, err := store.Get(context.Background(), "state")
	require.NoError(t, err)
	assert.Equal(t, `{"initialized":true}`, string(got))
}

func TestMemoryStore_SeedNil(t *testing.T) {
	store := memory.Seed("state", nil)

	_, err := store.Get(context.Background(), "state")
	assert.Error(t, err)
}
