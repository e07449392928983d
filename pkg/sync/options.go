// Package sync provides options and result types for reconciliation runs.
package sync

import (
	"time"

	"github.com/openstatehouse/legisync/internal/utils/ptr"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
)

// DefaultPageSize is the number of legislation items requested per page.
const DefaultPageSize = 50

// Options controls legislation paging and the full-sync workflow.
type Options struct {
	// Legislation paging
	PageSize int  // Items requested per source page
	MaxPage  *int // Last 0-indexed page to fetch (nil means all pages)

	// Orchestration control
	Timeout      time.Duration            // Timeout for the entire operation (0 means none)
	Sessions     []legislature.ExternalID // Sessions to include in a full sync (empty means all)
	IncludeVotes bool                     // Reconcile votes for every upserted item during a full sync
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		PageSize:     DefaultPageSize,
		MaxPage:      nil,
		Timeout:      0,
		Sessions:     nil,
		IncludeVotes: false,
	}
}

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...Option) *Options {
	return Defaults().Apply(opts...)
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.PageSize <= 0 {
		return &errors.ValidationError{
			Field:   "PageSize",
			Value:   s.PageSize,
			Message: "page size must be positive",
		}
	}

	if s.MaxPage != nil && *s.MaxPage < 0 {
		return &errors.ValidationError{
			Field:   "MaxPage",
			Value:   *s.MaxPage,
			Message: "max page must be non-negative",
		}
	}

	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	return nil
}

// IncludesSession reports whether a full sync should visit the session.
func (s *Options) IncludesSession(id legislature.ExternalID) bool {
	if len(s.Sessions) == 0 {
		return true
	}
	for _, want := range s.Sessions {
		if want == id {
			return true
		}
	}
	return false
}

// WithPageSize configures the legislation page size.
func WithPageSize(size int) Option {
	return func(opts *Options) {
		opts.PageSize = size
	}
}

// WithMaxPage bounds the legislation loop to pages 0 through page.
func WithMaxPage(page int) Option {
	return func(opts *Options) {
		opts.MaxPage = ptr.To(page)
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithSessions restricts a full sync to the given sessions.
func WithSessions(ids ...legislature.ExternalID) Option {
	return func(opts *Options) {
		opts.Sessions = ids
	}
}

// WithVotes configures whether a full sync reconciles votes.
func WithVotes(include bool) Option {
	return func(opts *Options) {
		opts.IncludeVotes = include
	}
}
