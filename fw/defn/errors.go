package defn

import "errors"

// ErrNotCanonical is returned when a face URI fails canonicalization.
var ErrNotCanonical = errors.New("URI could not be canonicalized")
