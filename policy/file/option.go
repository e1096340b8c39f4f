package file

import (
	"log/slog"
	"time"

	"github.com/viant/afs"
	"github.com/viant/pocketguard/policy"
)

// Option configures a Provider.
type Option func(p *Provider)

// WithFS sets the storage service used to read and write the settings file.
func WithFS(fs afs.Service) Option {
	return func(p *Provider) { p.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithDebounce sets the delay between a file change and the reload.
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) { p.debounce = d }
}

// WithOnChange registers a callback invoked after every successful reload.
func WithOnChange(fn func(*policy.Policy)) Option {
	return func(p *Provider) { p.onChange = fn }
}
