// Package model defines shared data types used across the dashboard backend.
//
// Bars are what the chart surface consumes, quotes are what the streaming
// display widgets consume. Both are produced from backend payloads and never
// persisted.
package model
