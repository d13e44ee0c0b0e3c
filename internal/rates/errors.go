package rates

import "errors"

// ErrTierUnavailable indicates a storage tier (cache or store) could not be
// reached at all, as opposed to holding no entry. It is absorbed by the
// fallback chain, never surfaced to callers on its own.
var ErrTierUnavailable = errors.New("storage tier unavailable")

// ErrMalformedResponse indicates the remote provider returned a payload
// without a usable base currency or rates mapping. Retrying cannot fix a
// parsing problem, so it is surfaced immediately.
var ErrMalformedResponse = errors.New("malformed provider response")

// ErrSourceUnavailable indicates the remote source failed on every attempt
// of the retry budget. It wraps the last underlying error for diagnostics.
var ErrSourceUnavailable = errors.New("rate source unavailable")
