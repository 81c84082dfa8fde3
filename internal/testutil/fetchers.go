// internal/testutil/fetchers.go
package testutil

import (
	"context"
	"errors"
	"sync/atomic"
)

// FakeFetcher is a scriptable platform fetch adapter for provider and
// aggregator tests. Years maps a calendar year to the day→count values to
// return; years not present return an error (adapter failure). Set Fail to
// make every call fail regardless of Years.
type FakeFetcher struct {
	Years map[int]map[string]int
	Fail  bool

	calls atomic.Int32
}

// ErrFetchFailed is the failure every FakeFetcher miss reports.
var ErrFetchFailed = errors.New("fetch failed")

// FetchYear implements contrib.Fetcher.
func (f *FakeFetcher) FetchYear(_ context.Context, _ string, year int) (map[string]int, error) {
	f.calls.Add(1)
	if f.Fail {
		return nil, ErrFetchFailed
	}
	values, ok := f.Years[year]
	if !ok {
		return nil, ErrFetchFailed
	}
	return values, nil
}

// Calls reports how many times FetchYear was invoked.
func (f *FakeFetcher) Calls() int {
	return int(f.calls.Load())
}
