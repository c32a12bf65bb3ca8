package repository

import "errors"

// Fetch error taxonomy. Every failure from a source falls in one of three
// buckets; all are non-fatal and handled by serving the last good snapshot.
var (
	// ErrRateLimited means the upstream returned HTTP 429 or an explicit quota error.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrMalformedResponse means the upstream replied but the JSON shape was unexpected.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// Error kinds used as low-cardinality metric labels.
const (
	KindRateLimit = "rate_limit"
	KindMalformed = "malformed"
	KindNetwork   = "network"
)

// ClassifyFetchError maps a fetch error onto the taxonomy. Anything that is
// neither a rate limit nor a malformed payload counts as a network failure
// (unreachable endpoint, timeout, canceled context).
func ClassifyFetchError(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimit
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	default:
		return KindNetwork
	}
}
