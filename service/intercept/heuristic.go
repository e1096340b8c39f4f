package intercept

import "strings"

var dialerPackages = map[string]bool{
	"com.android.server.telecom":   true,
	"com.google.android.dialer":    true,
	"com.samsung.android.incallui": true,
	"com.android.incallui":         true,
}

var dialerPackageHints = []string{"dialer", "phone", "incallui"}

var outgoingTextHints = []string{"dialing", "calling", "outgoing"}

// WindowEvent is a window change reported by the accessibility observer.
type WindowEvent struct {
	Package      string `json:"package" yaml:"package"`
	ClassName    string `json:"className,omitempty" yaml:"className,omitempty"`
	Text         string `json:"text,omitempty" yaml:"text,omitempty"`
	StateChanged bool   `json:"stateChanged,omitempty" yaml:"stateChanged,omitempty"`
}

// FromDialer reports whether the event comes from a dialer or in-call UI.
func (w *WindowEvent) FromDialer() bool {
	pkg := strings.ToLower(w.Package)
	if pkg == "" {
		return false
	}
	if dialerPackages[pkg] {
		return true
	}
	for _, hint := range dialerPackageHints {
		if strings.Contains(pkg, hint) {
			return true
		}
	}
	return false
}

// LooksLikeOutgoingCall reports whether the event suggests an outgoing call
// screen: a dialer window that changed state, shows dialing text or is an
// in-call class.
func (w *WindowEvent) LooksLikeOutgoingCall() bool {
	if !w.FromDialer() {
		return false
	}
	if w.StateChanged {
		return true
	}
	text := strings.ToLower(w.Text)
	for _, hint := range outgoingTextHints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(w.ClassName), "incall")
}
