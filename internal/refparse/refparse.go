// Package refparse normalizes user-supplied references (URLs or bare
// identifiers) into the canonical identifiers used as record keys.
package refparse

import "errors"

// ErrInvalidReference indicates the input matched none of the accepted
// shapes for the requested kind.
var ErrInvalidReference = errors.New("refparse: invalid reference")
