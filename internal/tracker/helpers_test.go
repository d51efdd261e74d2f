package tracker

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/darts/internal/store/memstore"
)

var startTime = time.Date(2025, time.March, 1, 19, 30, 0, 0, time.UTC)

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, *memstore.Store, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(startTime)
	store := memstore.New()
	base := []Option{
		WithClock(clock),
		WithLogger(quietLogger()),
		WithStore(store),
		WithIDSource(&seqIDs{}),
	}
	return New(append(base, opts...)...), store, clock
}
