package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Backend stores dashboard values in Redis. It implements kv.Backend.
// Values never expire: the dashboard state lives until it is explicitly wiped.
type Backend struct {
	client *redis.Client
}

// NewBackend creates a new Redis backend. The client is owned by the caller.
func NewBackend(client *redis.Client) *Backend {
	return &Backend{
		client: client,
	}
}

// Get retrieves the raw value stored under name
func (b *Backend) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := b.client.Get(ctx, ValueKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get value: %w", err)
	}
	return value, true, nil
}

// Set stores a raw value
func (b *Backend) Set(ctx context.Context, name, value string) error {
	if err := b.client.Set(ctx, ValueKey(name), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save value: %w", err)
	}
	return nil
}

// Delete removes a value
func (b *Backend) Delete(ctx context.Context, name string) error {
	if err := b.client.Del(ctx, ValueKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Clear removes every dashboard value
func (b *Backend) Clear(ctx context.Context) error {
	iter := b.client.Scan(ctx, 0, KeyPrefixValue+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := b.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete value key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to clear values: %w", err)
	}
	return nil
}

// Keys lists all stored value names
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	var names []string
	iter := b.client.Scan(ctx, 0, KeyPrefixValue+"*", 0).Iterator()
	for iter.Next(ctx) {
		name, err := ExtractName(iter.Val())
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan values: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Ping checks that Redis answers
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close is a no-op: the app closes the shared client on shutdown
func (b *Backend) Close() error {
	return nil
}
