// Package types defines the record kinds, identifier scheme, calendar dates,
// orderings, the Codec persistence contract, and the standard error values
// for the logistics record store.
package types
