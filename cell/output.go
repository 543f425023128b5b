package cell

import (
	"math"

	"github.com/ckblabs/ckb-chainstate/storeerrors"
	"github.com/pkg/errors"
)

// CellOutput is a transaction output: a capacity quantity in the smallest
// unit, an opaque data payload, a lock script controlling spendability, and
// an optional type script governing creation/burn. Immutable once sealed
// into a transaction.
type CellOutput struct {
	Capacity uint64
	Data     []byte
	Lock     Script
	Type     *Script
}

// SafeAddCapacity adds a and b, returning storeerrors.ErrArithmeticOverflow
// (wrapped with context) instead of silently wrapping on overflow. This is
// the checked-arithmetic primitive every capacity sum in this package is
// built from, including fee() and inputs_capacity().
func SafeAddCapacity(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(storeerrors.ErrArithmeticOverflow, "capacity add overflow: %d + %d", a, b)
	}
	return sum, nil
}

// SafeSubCapacity subtracts b from a, returning
// storeerrors.ErrArithmeticOverflow if b > a rather than wrapping into the
// upper range of uint64.
func SafeSubCapacity(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(storeerrors.ErrArithmeticOverflow, "capacity sub underflow: %d - %d", a, b)
	}
	return a - b, nil
}

// SumOutputsCapacity sums the capacity of outputs with checked arithmetic,
// returning storeerrors.ErrArithmeticOverflow on overflow.
func SumOutputsCapacity(outputs []CellOutput) (uint64, error) {
	var total uint64
	var err error
	for _, o := range outputs {
		total, err = SafeAddCapacity(total, o.Capacity)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// MaxCapacity is the largest representable capacity value.
const MaxCapacity = math.MaxUint64
