// Package storage provides the durable key-value partitions the assistant
// persists to: a synced partition for user settings and a local partition for
// the working session.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Partition names a storage partition.
type Partition string

const (
	PartitionSync  Partition = "sync"
	PartitionLocal Partition = "local"
)

// Store is a key-value store holding whole JSON records. A missing key is not
// an error: Get reports found=false.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes the record stored under key into out.
func GetJSON(ctx context.Context, s Store, key string, out interface{}) (bool, error) {
	data, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("error decoding record %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key, replacing the previous record.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding record %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
