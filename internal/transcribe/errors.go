package transcribe

import "errors"

// ErrAPIKeyMissing indicates no API key is configured for the selected
// provider. Wrapped by the constructors with the variable to set.
var ErrAPIKeyMissing = errors.New("missing API key")
