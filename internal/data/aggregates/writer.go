package aggregates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

// SnapshotWriter persists a complete AppData document.
type SnapshotWriter interface {
	Write(ctx context.Context, data contracts.AppData) error
}

type gatewayWriter struct {
	store kv.Store
	key   string
}

// NewGatewayWriter writes snapshots under key (kv.KeyAppData when empty).
func NewGatewayWriter(store kv.Store, key string) SnapshotWriter {
	if key == "" {
		key = kv.KeyAppData
	}
	return &gatewayWriter{store: store, key: key}
}

func (w *gatewayWriter) Write(ctx context.Context, data contracts.AppData) error {
	if w == nil || w.store == nil {
		return PersistenceError(fmt.Errorf("snapshot writer has no store"))
	}
	raw, err := json.Marshal(data.Normalize())
	if err != nil {
		return PersistenceError(fmt.Errorf("encode snapshot: %w", err))
	}
	if err := w.store.Put(ctx, w.key, raw, 0); err != nil {
		return PersistenceError(fmt.Errorf("write %s: %w", w.key, err))
	}
	return nil
}

// loadSnapshot reads the stored document. found=false means the key is absent.
func loadSnapshot(ctx context.Context, store kv.Store, key string) (contracts.AppData, bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return contracts.AppData{}, false, PersistenceError(fmt.Errorf("read %s: %w", key, err))
	}
	if !ok {
		return contracts.AppData{}, false, nil
	}
	var data contracts.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return contracts.AppData{}, true, RestoreFormatError(fmt.Sprintf("stored %s is not a valid document: %v", key, err))
	}
	return data.Normalize(), true, nil
}
