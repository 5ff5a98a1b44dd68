package catalog

import (
	"context"

	"github.com/comandero/pos-core/internal/store"
)

// KeyStoreProfile is the store namespace for the business profile record.
const KeyStoreProfile = "storeProfile"

type kvRepo struct{ kv *store.Store }

// NewKVRepository reads the store profile through the dual-tier KV store.
func NewKVRepository(kv *store.Store) Repository { return &kvRepo{kv: kv} }

func (r *kvRepo) GetProfile(ctx context.Context) (*StoreProfile, bool, error) {
	var p StoreProfile
	ok, err := r.kv.Get(KeyStoreProfile, &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}
