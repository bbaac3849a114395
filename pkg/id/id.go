// Package id mints and inspects trade identifiers.
//
// Trade ids are ULIDs: unique, never reused and ordered by the moment the
// trade was logged. Journals imported from elsewhere may carry ids in other
// formats; those are still valid keys, they just carry no timestamp.
package id

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh trade id. ulid.Make draws from a locked monotonic
// source, so ids minted in the same millisecond still increase.
func New() string {
	return ulid.Make().String()
}

// Time returns the moment a trade id was minted.
func Time(s string) (time.Time, bool) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(id.Time()), true
}

// Valid reports whether s has the shape of an id minted by New.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
