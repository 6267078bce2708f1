package attribution

import "errors"

// ErrDataUnavailable wraps any store read failure. Aggregation is
// all-or-nothing per call: no partial results are produced on top of an
// incomplete fetch.
var ErrDataUnavailable = errors.New("attribution data unavailable")
