// Package file provides a policy.Provider backed by a YAML settings file. The
// file is re-read when it changes on disk so that toggles made by the
// settings surface apply to the very next decision.
package file

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viant/afs"
	afsfile "github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/viant/pocketguard/policy"
)

const defaultDebounce = 250 * time.Millisecond

// Provider serves the policy stored in a settings file.
type Provider struct {
	path     string
	fs       afs.Service
	store    *policy.Store
	logger   *slog.Logger
	debounce time.Duration
	onChange func(*policy.Policy)

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a provider for the settings file at path and loads it. A
// missing file yields a policy with every feature disabled.
func New(ctx context.Context, path string, opts ...Option) (*Provider, error) {
	ret := &Provider{
		path:     path,
		fs:       afs.New(),
		store:    policy.NewStore(nil),
		logger:   slog.Default(),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := ret.Reload(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

// Policy returns the policy loaded most recently.
func (p *Provider) Policy() *policy.Policy {
	return p.store.Policy()
}

// Reload re-reads the settings file.
func (p *Provider) Reload(ctx context.Context) error {
	loaded, err := Load(ctx, p.fs, p.path)
	if err != nil {
		return err
	}
	p.store.Set(loaded)
	if p.onChange != nil {
		p.onChange(p.store.Policy())
	}
	return nil
}

// Save persists pol to the settings file and makes it current.
func (p *Provider) Save(ctx context.Context, pol *policy.Policy) error {
	data, err := yaml.Marshal(policy.ToConfig(pol))
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err = p.fs.Upload(ctx, p.path, afsfile.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save settings to %s: %w", p.path, err)
	}
	p.store.Set(pol)
	return nil
}

// Watch starts reloading the policy whenever the settings file changes. The
// parent directory is watched so that editors replacing the file by rename
// are noticed too.
func (p *Provider) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(localPath(p.path))
	if err = fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	p.fsw = fsw
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)
	p.logger.Info("settings watcher started", "path", p.path)
	return nil
}

// Close stops the watcher.
func (p *Provider) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
	if p.fsw != nil {
		return p.fsw.Close()
	}
	return nil
}

func (p *Provider) loop(ctx context.Context) {
	defer p.wg.Done()
	target := filepath.Clean(localPath(p.path))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				p.scheduleReload(ctx)
			}
		case err, ok := <-p.fsw.Errors:
			if !ok {
				return
			}
			p.logger.Warn("settings watcher error", "error", err)
		}
	}
}

func (p *Provider) scheduleReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		if err := p.Reload(ctx); err != nil {
			p.logger.Warn("settings reload failed", "path", p.path, "error", err)
			return
		}
		p.logger.Info("settings reloaded", "path", p.path)
	})
}

// Load reads a policy from the settings file at URL.
func Load(ctx context.Context, fs afs.Service, URL string) (*policy.Policy, error) {
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings %s: %w", URL, err)
	}
	if !exists {
		return &policy.Policy{}, nil
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", URL, err)
	}
	cfg := &policy.Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode settings %s: %w", URL, err)
	}
	return policy.FromConfig(cfg), nil
}

func localPath(URL string) string {
	return url.Path(URL)
}
