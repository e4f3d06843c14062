// Package fetch implements the Data Fetch Scheduler component.
//
// The scheduler polls the historical-bars backend for the current selection
// at an adaptive cadence, normalizes the rows, and applies them to the
// current epoch's surface. Results for a superseded epoch are discarded; the
// epoch guard is the only protection against out-of-order completions.
//
// Display state follows a ratchet: once good data has rendered, transient
// failures and empty responses never blank the chart. The phase machine
// forbids the Ready→Empty transition except through Reset on a selection
// change.
package fetch
