// internal/domain/appointment/fetcher.go
package appointment

import "context"

// Fetcher retrieves candidate appointment dates from the remote source.
//
// Implementations never return an error: configuration, transport and parse
// failures are logged by the implementation and degrade to an empty result,
// so "checked, found nothing" and "check failed" are indistinguishable to
// callers. The current upstream reports at most one next slot, but callers
// must treat the result as a sequence of zero or more candidates.
type Fetcher interface {
	Fetch(ctx context.Context) []Date
}
