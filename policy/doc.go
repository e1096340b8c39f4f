// Package policy holds the user-chosen feature flags that steer call
// interception and pocket reactions. The flags are persisted by the host's
// settings surface; from the core's perspective they are read-only and are
// re-read on every decision so that changes take effect immediately.
package policy
