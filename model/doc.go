// Package model contains the value types shared by the pocketguard services:
// outgoing-call triggers and decisions, sensor samples, and confirmation
// session modes and outcomes.
//
// The types carry no behaviour beyond small helpers so that every service
// can depend on them without depending on each other.
package model
