package connections

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/vaulthook/pkg/connection"
)

func TestChain_Lookup(t *testing.T) {
	t.Parallel()

	first := connection.NewMemoryRegistry(connection.Record{ID: "shared", Host: "first"})
	second := connection.NewMemoryRegistry(
		connection.Record{ID: "shared", Host: "second"},
		connection.Record{ID: "only_second", Host: "second"},
	)
	chain := Chain{first, second}
	ctx := context.Background()

	rec, err := chain.Lookup(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Host)

	rec, err = chain.Lookup(ctx, "only_second")
	require.NoError(t, err)
	assert.Equal(t, "second", rec.Host)

	_, err = chain.Lookup(ctx, "nowhere")
	var nf connection.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nowhere", nf.ID)
}

func TestChain_StopsOnRegistryFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("database unavailable")
	var reachedLast bool
	chain := Chain{
		connection.NewMemoryRegistry(),
		connection.LookupFunc(func(ctx context.Context, id string) (connection.Record, error) {
			return connection.Record{}, boom
		}),
		connection.LookupFunc(func(ctx context.Context, id string) (connection.Record, error) {
			reachedLast = true
			return connection.Record{ID: id}, nil
		}),
	}

	_, err := chain.Lookup(context.Background(), "vault_default")
	assert.Same(t, boom, err)
	assert.False(t, reachedLast)
}

func TestChain_List(t *testing.T) {
	t.Parallel()

	chain := Chain{
		NewEnvRegistry(""),
		connection.NewMemoryRegistry(connection.Record{ID: "b", Host: "first"}),
		connection.NewMemoryRegistry(
			connection.Record{ID: "b", Host: "second"},
			connection.Record{ID: "a", Host: "second"},
		),
	}

	records, err := chain.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "first", records[1].Host)
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	_, err := Chain{}.Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
