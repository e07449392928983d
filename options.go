package legisync

import (
	"github.com/openstatehouse/legisync/pkg/errors"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Option is a function that configures a Syncer.
type Option func(*config) error

// config holds construction-time settings.
type config struct {
	dangerouslyCreateJurisdiction bool
	pageSize                      int
	runID                         string
}

func defaultConfig() *config {
	return &config{
		pageSize: pkgsync.DefaultPageSize,
	}
}

// WithDangerouslyCreateJurisdiction lets New create the jurisdiction and its
// declared chambers when the store does not know it. Without it New fails
// on a missing jurisdiction, and no other operation ever creates one.
func WithDangerouslyCreateJurisdiction(enabled bool) Option {
	return func(c *config) error {
		c.dangerouslyCreateJurisdiction = enabled
		return nil
	}
}

// WithPageSize configures the legislation page size requested from the source.
func WithPageSize(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return &errors.ValidationError{
				Field:   "page_size",
				Value:   size,
				Message: "page size must be positive",
			}
		}
		c.pageSize = size
		return nil
	}
}

// WithRunID tags every log line of the run with id instead of a generated one.
func WithRunID(id string) Option {
	return func(c *config) error {
		c.runID = id
		return nil
	}
}
