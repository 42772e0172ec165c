package apierr_test

// Coverage Notes:
// - Tests verify sentinel error identity with errors.Is.
// - Tests verify wrapping behavior with fmt.Errorf("%s: %w", ...).
// - All sentinels are tested: ErrRateLimit, ErrQuotaExceeded, ErrTimeout,
//   ErrAuthFailed, ErrBadRequest, ErrServer.

import (
	"errors"
	"fmt"
	"testing"

	"lectio/internal/apierr"
)

func sentinels() []struct {
	name string
	err  error
} {
	return []struct {
		name string
		err  error
	}{
		{"ErrRateLimit", apierr.ErrRateLimit},
		{"ErrQuotaExceeded", apierr.ErrQuotaExceeded},
		{"ErrTimeout", apierr.ErrTimeout},
		{"ErrAuthFailed", apierr.ErrAuthFailed},
		{"ErrBadRequest", apierr.ErrBadRequest},
		{"ErrServer", apierr.ErrServer},
	}
}

// ---------------------------------------------------------------------------
// TestSentinelErrorIdentity - errors.Is matches for all sentinels
// ---------------------------------------------------------------------------

func TestSentinelErrorIdentity(t *testing.T) {
	t.Parallel()

	for _, tt := range sentinels() {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.err) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSentinelErrorWrapping - wrapped errors still match with errors.Is
// ---------------------------------------------------------------------------

func TestSentinelErrorWrapping(t *testing.T) {
	t.Parallel()

	for _, tt := range sentinels() {
		t.Run("wrapped "+tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("some context: %w", tt.err)

			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is(wrapped, %v) = false, want true", tt.err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSentinelErrorDistinct - sentinels are distinct from each other
// ---------------------------------------------------------------------------

func TestSentinelErrorDistinct(t *testing.T) {
	t.Parallel()

	all := sentinels()
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			t.Run(fmt.Sprintf("%s_is_not_%s", a.name, b.name), func(t *testing.T) {
				t.Parallel()

				if errors.Is(a.err, b.err) {
					t.Errorf("errors.Is(%v, %v) = true, want false", a.err, b.err)
				}
			})
		}
	}
}
