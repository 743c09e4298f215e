package redis

import "fmt"

const (
	// KeyPrefixValue is the prefix for stored dashboard values
	KeyPrefixValue = "newtab:kv:"
)

// ValueKey returns the Redis key holding the value stored under name
func ValueKey(name string) string {
	return KeyPrefixValue + name
}

// ExtractName extracts the value name from a Redis key
func ExtractName(key string) (string, error) {
	if len(key) <= len(KeyPrefixValue) || key[:len(KeyPrefixValue)] != KeyPrefixValue {
		return "", fmt.Errorf("invalid value key: %s", key)
	}
	return key[len(KeyPrefixValue):], nil
}
