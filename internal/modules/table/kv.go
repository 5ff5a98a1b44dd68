package table

import (
	"context"

	"github.com/comandero/pos-core/internal/store"
)

// KeyTables is the store namespace for the tables collection.
const KeyTables = "tables"

type kvRepo struct{ kv *store.Store }

// NewKVRepository persists the tables collection through the dual-tier KV
// store.
func NewKVRepository(kv *store.Store) Repository { return &kvRepo{kv: kv} }

func (r *kvRepo) List(ctx context.Context) ([]Table, error) {
	var tables []Table
	ok, err := r.kv.Get(KeyTables, &tables)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return tables, nil
}

func (r *kvRepo) Save(ctx context.Context, tables []Table) error {
	return r.kv.Set(KeyTables, tables)
}
