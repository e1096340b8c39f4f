// Package pending holds the process-wide state shared by every outgoing-call
// trigger: the call awaiting confirmation, the one-shot bypass marker and the
// time of the last interception.
//
// The Store guards the whole state with a single lock. Read-then-write
// sequences run inside Transact so that concurrent triggers observe either
// all or none of another trigger's writes.
package pending
