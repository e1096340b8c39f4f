// Package intercept arbitrates outgoing calls observed by up to four platform
// hook points: the pre-dial broadcast, the call-screening hook, the
// call-redirection hook and the accessibility-observed dialer heuristic.
//
// Every hook is a thin adapter over one decision function, Decide, which maps
// the trigger, the number, a snapshot of the shared pending state and the
// feature flags to Allow, Intercept or Suppress. The Service runs Decide and
// the resulting state change as one transaction on the pending store, so two
// hooks racing for the same call yield at most one interception.
package intercept
