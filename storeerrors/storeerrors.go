// Package storeerrors defines the sentinel errors shared across the cell
// and store packages, mirroring the ruleerrors sentinel-plus-wrap
// idiom used throughout consensusstatemanager.
//
// Key absence is never represented as an error anywhere in this module —
// read operations return a zero value and an explicit "found" bool or a
// nil pointer instead.
package storeerrors

import "github.com/pkg/errors"

// ErrArithmeticOverflow is wrapped with context and returned by capacity
// sums that exceed the representable range (ResolvedTransaction.Fee,
// ResolvedTransaction.InputsCapacity, CellOutput capacity arithmetic).
var ErrArithmeticOverflow = errors.New("arithmetic overflow in capacity computation")

// ErrIntegrityFault is wrapped with context and returned when a well-typed
// column yields undeserializable bytes, or a header exists without one of
// its companion columns. Callers MUST treat this as fatal: the store is
// corrupted and the process should stop rather than continue deriving
// consensus state from it.
var ErrIntegrityFault = errors.New("chain store integrity fault")

// ErrEngine wraps a failure reported by the underlying key/value engine
// itself (as opposed to a fault in the data the engine faithfully stored).
var ErrEngine = errors.New("storage engine error")
