// Package kv is the persistence gateway: a durable byte-string store
// addressed by fixed key names. Values are UTF-8 JSON documents.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// KeyAppData holds the whole AppData document.
	KeyAppData = "appData"
	// KeyCurrentUser holds the signed-in projection for the local CLI.
	KeyCurrentUser = "currentUser"
)

var (
	ErrEmptyKey     = errors.New("kv: empty key")
	ErrInvalidValue = errors.New("kv: value is not valid JSON")
)

// Store is implemented by every gateway backend. Get reports found=false
// for missing or expired keys. A ttl <= 0 never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SessionKey is the per-session currentUser key used by the HTTP adapter.
func SessionKey(sessionID string) string {
	return KeyCurrentUser + ":" + strings.TrimSpace(sessionID)
}

func checkPut(key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w (key %q)", ErrInvalidValue, key)
	}
	return nil
}

// GetJSON decodes the value under key into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("kv: decode %q: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %q: %w", key, err)
	}
	return s.Put(ctx, key, raw, ttl)
}

func expiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}
