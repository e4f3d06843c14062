// Package view implements the View Session Controller component.
//
// The controller owns one rendering surface per instrument selection and the
// epoch counter that invalidates stale asynchronous work. Every async
// callback captures the epoch it was scheduled under and compares it against
// the live epoch before touching shared state; a mismatch means the
// selection moved on and the result is discarded silently.
//
// The epoch comparison is the sole synchronization primitive for surface
// access. There is no lock handed to other components; they hold a valid
// epoch token or they touch nothing.
package view
