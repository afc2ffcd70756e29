// Package kvstore keeps the storefront's JSON documents in a storage.Area.
// Every read converts missing or corrupt data into an empty value at this boundary.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// Storage keys.
const (
	KeyCart     = "cart"
	KeyProducts = "app_products"
	KeyOrders   = "app_orders"
	KeyUsers    = "app_users"
	KeySeed     = "app_seed"
	KeyContacts = "contactos"
)

type document struct {
	area storage.Area
	key  string
	log  logger.Logger
}

// load decodes the value into dst. found is false when the key is absent;
// ok is false when the value could not be read or decoded.
func (d document) load(ctx context.Context, dst any) (found, ok bool) {
	raw, found, err := d.area.Get(ctx, d.key)
	if err != nil {
		d.log.Warn("read storage key failed", logger.String("key", d.key), logger.Error(err))
		return false, false
	}
	if !found {
		return false, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		d.log.Warn("stored value is corrupt, using empty default",
			logger.String("key", d.key),
			logger.Error(err),
		)
		return true, false
	}
	return true, true
}

func (d document) save(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.area.Set(ctx, d.key, data); err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}

func (d document) raw(ctx context.Context) ([]byte, bool) {
	raw, found, err := d.area.Get(ctx, d.key)
	if err != nil {
		d.log.Warn("read storage key failed", logger.String("key", d.key), logger.Error(err))
		return nil, false
	}
	return raw, found
}

func orNop(l logger.Logger) logger.Logger {
	if l == nil {
		return logger.NewNop()
	}
	return l
}
