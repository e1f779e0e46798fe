// Package connections provides connection registries backed by the
// environment, a YAML file, the orchestrator metadata database and the OS
// keyring.
package connections

import (
	"context"
	"errors"
	"sort"

	"github.com/systmms/vaulthook/pkg/connection"
)

// Chain consults registries in order. A NotFoundError moves on to the next
// one; any other error stops the search.
type Chain []connection.Lookup

// Lookup implements connection.Lookup.
func (c Chain) Lookup(ctx context.Context, id string) (connection.Record, error) {
	for _, l := range c {
		rec, err := l.Lookup(ctx, id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, connection.ErrNotFound) {
			return connection.Record{}, err
		}
	}
	return connection.Record{}, connection.NotFoundError{ID: id}
}

// List merges the records of every registry that can list. Earlier
// registries win on duplicate ids.
func (c Chain) List(ctx context.Context) ([]connection.Record, error) {
	seen := map[string]connection.Record{}
	for _, l := range c {
		lister, ok := l.(connection.Lister)
		if !ok {
			continue
		}
		records, err := lister.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if _, dup := seen[r.ID]; !dup {
				seen[r.ID] = r
			}
		}
	}

	out := make([]connection.Record, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
