// Package pocket turns proximity and light sensor samples into a stable
// "device is in a pocket" signal and reacts when the device enters a pocket.
//
// The device counts as in a pocket only while the proximity sensor reports
// something near and the ambient light is low. Transitions are detected by
// comparing two consecutive evaluations; the reaction to entering a pocket is
// either locking the device or asking for an unlock confirmation, never both.
package pocket
