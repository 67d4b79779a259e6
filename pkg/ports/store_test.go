package ports_test

import (
	"context"
	"slices"
	"testing"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/stretchr/testify/assert"
)

// MockStore is a map-backed BlobStore used to check the contract suite itself.
type MockStore struct {
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestBlobStore_Contract(t *testing.T) {
	ports.RunBlobStoreContract(t, NewMockStore())
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	nav := ports.NavigatorFunc(func(ctx context.Context, destination string) error {
		got = destination
		return nil
	})

	assert.NoError(t, nav.Redirect(context.Background(), "step2.html"))
	assert.Equal(t, "step2.html", got)
}
