// Package testutil provides shared test helpers for building stores and services.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/noteservice"
	"github.com/starford/quill/internal/notestore"
)

// Epoch is the first instant returned by TestClock.
var Epoch = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

// TestClock returns a clock that advances one second per call.
func TestClock() func() time.Time {
	var mu sync.Mutex
	ticks := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return Epoch.Add(time.Duration(ticks) * time.Second)
	}
}

// TestStore creates an empty store with the default catalog, a ticking
// clock, and sequential ids (n1, n2, ...).
func TestStore(t *testing.T) *notestore.Store {
	t.Helper()
	var mu sync.Mutex
	seq := 0
	return notestore.New(models.DefaultCatalog(),
		notestore.WithClock(TestClock()),
		notestore.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("n%d", seq)
		}),
	)
}

// TestService creates a service over TestStore with a discarded logger.
func TestService(t *testing.T, opts ...noteservice.Option) *noteservice.Service {
	t.Helper()
	base := []noteservice.Option{
		noteservice.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		noteservice.WithClock(func() time.Time { return Epoch }),
	}
	return noteservice.NewService(TestStore(t), append(base, opts...)...)
}
