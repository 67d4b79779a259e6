package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/persistence/middleware"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunBlobStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()
	record := []byte(`{"variables":{"secret":"my-secret-sauce"}}`)

	require.NoError(t, secure.Set(ctx, "state", record))

	stored, err := underlying.Get(ctx, "state")
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "my-secret-sauce")
	assert.Contains(t, string(stored), "__encrypted__")

	loaded, err := secure.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Set(ctx, "state", []byte("encrypted-with-old-key")))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "encrypted-with-old-key", string(loaded))

	require.NoError(t, secureNew.Set(ctx, "state", []byte("encrypted-with-new-key")))

	_, err = secureOld.Get(ctx, "state")
	assert.Error(t, err, "old key alone must not decrypt records written with the new key")
}

func TestEncryptionMiddleware_PlainRecordRejected(t *testing.T) {
	underlying := memory.Seed("state", []byte(`{"initialized":true}`))
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	_, err := secure.Get(context.Background(), "state")
	assert.ErrorIs(t, err, middleware.ErrMissingEnvelope)
}

func TestEncryptionMiddleware_NotFoundPassesThrough(t *testing.T) {
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())

	_, err := secure.Get(context.Background(), "state")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestDecodeKey(t *testing.T) {
	key := generateKey(t)

	got, err := middleware.DecodeKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.DecodeKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	_, err = middleware.DecodeKey(strings.Repeat("!", 10))
	assert.Error(t, err)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.BlobStore) ports.BlobStore {
			return &recordingStore{BlobStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))

	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.BlobStore
	name  string
	calls *[]string
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte) error {
	*r.calls = append(*r.calls, r.name)
	return r.BlobStore.Set(ctx, key, value)
}
