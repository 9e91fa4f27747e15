package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{
			name:     "single value",
			value:    "10.0.0.0/8",
			expected: []string{"10.0.0.0/8"},
		},
		{
			name:     "multiple values with quotes and blanks",
			value:    `"10.0.0.1", '192.168.1.0/24', ,127.0.0.1`,
			expected: []string{"10.0.0.1", "192.168.1.0/24", "127.0.0.1"},
		},
		{
			name:     "empty",
			value:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustPublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	tests := []struct {
		name      string
		value     string
		wantNil   bool
		wantPanic bool
	}{
		{name: "unset", value: "", wantNil: true},
		{name: "valid hex key", value: hex.EncodeToString(pub)},
		{name: "not hex", value: "zz-not-hex", wantPanic: true},
		{name: "wrong length", value: "abcd", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_PUBLIC_KEY", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("mustPublicKey() should have panicked")
					}
				}()
			}

			got := mustPublicKey("TEST_PUBLIC_KEY")
			if tt.wantNil && got != nil {
				t.Errorf("mustPublicKey() = %x, want nil", got)
			}
			if !tt.wantNil && !tt.wantPanic && !pub.Equal(got) {
				t.Errorf("mustPublicKey() = %x, want %x", got, pub)
			}
		})
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("NAAGO_DISCORD_TOKEN", "token")
	t.Setenv("NAAGO_DISCORD_APP_ID", "1234")
	t.Setenv("NAAGO_LODESTONE_URL", "https://lodestone.example.com/")
	t.Setenv("NAAGO_DATABASE_URL", "postgres://naago@localhost/naago")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	if cfg.LodestoneURL != "https://lodestone.example.com" {
		t.Errorf("LodestoneURL = %v, want trailing slash trimmed", cfg.LodestoneURL)
	}
	if cfg.CharacterTTL != 10*time.Minute {
		t.Errorf("CharacterTTL = %v, want 10m", cfg.CharacterTTL)
	}
	if cfg.Cooldown != time.Second {
		t.Errorf("Cooldown = %v, want 1s", cfg.Cooldown)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %v, want empty (memory store)", cfg.RedisAddr)
	}
	if cfg.DiscordPublicKey != nil {
		t.Errorf("DiscordPublicKey = %x, want nil", cfg.DiscordPublicKey)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero ttl", key: "NAAGO_CHARACTER_TTL", val: "0s"},
		{name: "negative cooldown", key: "NAAGO_COOLDOWN", val: "-1s"},
		{name: "password required but empty", key: "NAAGO_REDIS_PASSWORD_REQUIRED", val: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			_ = Load()
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
