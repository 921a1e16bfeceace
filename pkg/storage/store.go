package storage

import (
	"errors"

	"github.com/rigmend/rigmend/pkg/types"
)

// ErrNotFound is returned when a persisted aggregate does not exist yet.
// Callers fall back to defaults; this is never a fatal condition.
var ErrNotFound = errors.New("not found")

// Store persists the healer's three independent aggregates: the runtime
// configuration, the per-node baseline samples, and the capped action log.
// Each aggregate is saved and loaded wholesale, so any backend that can
// hold three opaque records works. Save failures are treated as
// best-effort by callers; Load failures fall back to in-memory defaults.
type Store interface {
	SaveConfig(cfg types.Config) error
	LoadConfig() (types.Config, error)

	SaveBaselines(samples map[string][]types.Sample) error
	LoadBaselines() (map[string][]types.Sample, error)

	SaveActionLog(entries []types.ActionEntry) error
	LoadActionLog() ([]types.ActionEntry, error)

	Close() error
}
