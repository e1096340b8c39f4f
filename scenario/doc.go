// Package scenario replays scripted sensor samples, call triggers and slide
// gestures against a fully wired guard. Scripts are YAML documents loaded by
// URL, so they can live on the local file system or any afs-supported
// storage.
package scenario
