package redis

import (
	"fmt"
	"strconv"
)

const (
	// KeyPrefixCharacter is the prefix for character record keys
	KeyPrefixCharacter = "naago:character:"
	// KeyAllCharacters is the key for the set of all character IDs
	KeyAllCharacters = "naago:characters:all"
)

// CharacterKey returns the Redis key for a character record by ID
func CharacterKey(id int64) string {
	return KeyPrefixCharacter + strconv.FormatInt(id, 10)
}

// AllCharactersKey returns the key for the set of all character IDs
func AllCharactersKey() string {
	return KeyAllCharacters
}

// ExtractCharacterID extracts the character ID from a Redis key
func ExtractCharacterID(key string) (int64, error) {
	if len(key) <= len(KeyPrefixCharacter) || key[:len(KeyPrefixCharacter)] != KeyPrefixCharacter {
		return 0, fmt.Errorf("invalid character key: %s", key)
	}
	id, err := strconv.ParseInt(key[len(KeyPrefixCharacter):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid character key: %s: %w", key, err)
	}
	return id, nil
}
