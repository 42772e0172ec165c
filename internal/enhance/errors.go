package enhance

import "errors"

// ErrEnhanceFailed indicates the encoder exited non-zero while applying
// the filter chain.
var ErrEnhanceFailed = errors.New("audio enhancement failed")
