package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"not null violation", &pgconn.PgError{Code: "23502"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "40P01"}
	wrapped := fmt.Errorf("clear signal: %w", inner)
	if !isRetryable(wrapped) {
		t.Errorf("isRetryable(wrapped deadlock) = false, want true")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.BaseDelay <= 0 || cfg.MaxDelay < cfg.BaseDelay {
		t.Errorf("delay bounds invalid: base=%v max=%v", cfg.BaseDelay, cfg.MaxDelay)
	}
}

func TestNewAppliesDefaultsOnZeroRetry(t *testing.T) {
	s := New(nil, RetryConfig{}, nil)
	if s.retry.MaxRetries != DefaultRetryConfig().MaxRetries {
		t.Errorf("retry.MaxRetries = %d, want default %d",
			s.retry.MaxRetries, DefaultRetryConfig().MaxRetries)
	}
	if s.logger == nil {
		t.Error("logger should never be nil")
	}
}

func TestRetryExhaustedSentinel(t *testing.T) {
	err := fmt.Errorf("%w after 3 attempts: deadlock", ErrRetryExhausted)
	if !errors.Is(err, ErrRetryExhausted) {
		t.Error("wrapped exhaustion error should match ErrRetryExhausted")
	}
}

func TestSchemaDDLUsesConfiguredDims(t *testing.T) {
	stmts := schemaDDL(768)
	found := false
	for _, s := range stmts {
		if strings.Contains(s, "vector(768)") {
			found = true
		}
	}
	if !found {
		t.Error("schemaDDL(768) should size the embedding column to 768")
	}
}
