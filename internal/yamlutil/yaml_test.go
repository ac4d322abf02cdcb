package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type testConfig struct {
	BaseURL string `yaml:"base_url"`
	Format  string `yaml:"format"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := UnmarshalStrict([]byte("base_url: https://tracker.example.com\nformat: markup\n"), &cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseURL != "https://tracker.example.com" || cfg.Format != "markup" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		if err := UnmarshalStrict([]byte("format: document\nbogus: 1\n"), &cfg); err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		if err := UnmarshalStrict(nil, &cfg); !errors.Is(err, ErrNilData) {
			t.Errorf("err = %v, want ErrNilData", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		if err := UnmarshalStrict([]byte("a: 1"), nil); !errors.Is(err, ErrNilDestination) {
			t.Errorf("err = %v, want ErrNilDestination", err)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()
		big := []byte("a: " + strings.Repeat("x", MaxInputSize))
		var cfg testConfig
		if err := UnmarshalStrict(big, &cfg); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("err = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		if err := UnmarshalStrict([]byte("base_url: [unclosed"), &cfg); err == nil {
			t.Error("expected parse error")
		}
	})
}
