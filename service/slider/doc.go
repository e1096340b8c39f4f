// Package slider implements the slide-to-confirm gesture protocol used by the
// confirmation surface.
//
// A Surface holds at most one session. A session moves from idle to dragging
// when a drag starts near the start of the track, snaps back to idle when the
// drag is released early, and ends either completed (the knob reached the
// completion threshold) or cancelled (explicit cancel, back navigation in
// unlock mode, or the surface hidden past the grace period). Each session is
// resolved exactly once and the resolution is handed to the registered
// Resolver synchronously.
package slider
