package scenario

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/pocketguard"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/intercept"
)

// Script is a replayable sequence of steps.
type Script struct {
	Name   string              `json:"name" yaml:"name"`
	Config *pocketguard.Config `json:"config" yaml:"config"`
	Device Device              `json:"device,omitempty" yaml:"device,omitempty"`
	Steps  []*Step             `json:"steps" yaml:"steps"`
}

// Device describes the simulated device capabilities.
type Device struct {
	// NoLockPrivilege makes every lock request fail.
	NoLockPrivilege bool `json:"noLockPrivilege,omitempty" yaml:"noLockPrivilege,omitempty"`
	// DialError makes every dial request fail with the given message.
	DialError string `json:"dialError,omitempty" yaml:"dialError,omitempty"`
}

// Step is one action followed by optional expectations. Exactly one action
// field is expected to be set; Expect alone is a pure assertion.
type Step struct {
	Sample         *model.Sample          `json:"sample,omitempty" yaml:"sample,omitempty"`
	Call           *model.Call            `json:"call,omitempty" yaml:"call,omitempty"`
	Window         *intercept.WindowEvent `json:"window,omitempty" yaml:"window,omitempty"`
	Slide          []float64              `json:"slide,omitempty" yaml:"slide,omitempty"`
	Release        bool                   `json:"release,omitempty" yaml:"release,omitempty"`
	Cancel         bool                   `json:"cancel,omitempty" yaml:"cancel,omitempty"`
	Back           bool                   `json:"back,omitempty" yaml:"back,omitempty"`
	Hide           bool                   `json:"hide,omitempty" yaml:"hide,omitempty"`
	Show           bool                   `json:"show,omitempty" yaml:"show,omitempty"`
	CheckAbandoned bool                   `json:"checkAbandoned,omitempty" yaml:"checkAbandoned,omitempty"`
	Advance        time.Duration          `json:"advance,omitempty" yaml:"advance,omitempty"`
	Policy         *policy.Config         `json:"policy,omitempty" yaml:"policy,omitempty"`
	Stop           bool                   `json:"stop,omitempty" yaml:"stop,omitempty"`
	Start          bool                   `json:"start,omitempty" yaml:"start,omitempty"`
	Expect         *Expect                `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Expect lists assertions checked after a step. Unset fields are not
// checked.
type Expect struct {
	Decision model.Decision     `json:"decision,omitempty" yaml:"decision,omitempty"`
	InPocket *bool              `json:"inPocket,omitempty" yaml:"inPocket,omitempty"`
	Pending  *bool              `json:"pending,omitempty" yaml:"pending,omitempty"`
	Session  model.SessionState `json:"session,omitempty" yaml:"session,omitempty"`
	Mode     model.Mode         `json:"mode,omitempty" yaml:"mode,omitempty"`
	Dialed   []string           `json:"dialed,omitempty" yaml:"dialed,omitempty"`
	Locks    *int               `json:"locks,omitempty" yaml:"locks,omitempty"`
}

var envExpr = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)\}`)

// expandEnv replaces every ${env.KEY} with the value of KEY, or "" if unset.
func expandEnv(data []byte) []byte {
	return envExpr.ReplaceAllFunc(data, func(match []byte) []byte {
		key := envExpr.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(key)))
	})
}

// Decode parses a YAML script. Settings missing from the config section keep
// their defaults.
func Decode(data []byte) (*Script, error) {
	script := &Script{Config: pocketguard.DefaultConfig()}
	if err := yaml.Unmarshal(expandEnv(data), script); err != nil {
		return nil, err
	}
	if script.Config == nil {
		script.Config = pocketguard.DefaultConfig()
	}
	if err := script.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	for i, step := range script.Steps {
		if step == nil {
			return nil, fmt.Errorf("step %d is empty", i+1)
		}
		if step.Call != nil && !step.Call.Trigger.Valid() {
			return nil, fmt.Errorf("step %d: unsupported trigger %q", i+1, step.Call.Trigger)
		}
	}
	return script, nil
}

// Load reads and decodes the script at URL.
func Load(ctx context.Context, fs afs.Service, URL string) (*Script, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", URL, err)
	}
	script, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", URL, err)
	}
	if script.Name == "" {
		script.Name = URL
	}
	return script, nil
}
