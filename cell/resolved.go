package cell

// ResolvedTransaction is a Transaction together with the CellStatus of
// every input and dependency it was resolved against. The view used to
// resolve it is fixed for the lifetime of the object; re-resolving against
// a newer view yields a new object (see resolver.Resolve).
type ResolvedTransaction struct {
	Transaction Transaction
	DepCells    []Status
	InputCells  []Status
}

// IsCellbase reports whether rt resolves a cellbase transaction, defined
// as having no resolved inputs: input_cells.len() == 0 iff
// transaction.is_cellbase().
func (rt *ResolvedTransaction) IsCellbase() bool {
	return len(rt.InputCells) == 0
}

// InputsCapacity sums the capacity of every Live input, with checked
// arithmetic. Non-Live inputs contribute zero and are not an error at this
// layer — a verifier downstream rejects transactions with non-Live inputs.
func (rt *ResolvedTransaction) InputsCapacity() (uint64, error) {
	var total uint64
	var err error
	for _, status := range rt.InputCells {
		if !status.IsLive() {
			continue
		}
		total, err = SafeAddCapacity(total, status.Meta.Capacity())
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Fee computes max(0, inputs_capacity - outputs_capacity) using checked
// arithmetic. It returns storeerrors.ErrArithmeticOverflow (via
// InputsCapacity/OutputsCapacity) on over/underflow, never a silent wrap.
func (rt *ResolvedTransaction) Fee() (uint64, error) {
	inputs, err := rt.InputsCapacity()
	if err != nil {
		return 0, err
	}
	outputs, err := rt.Transaction.OutputsCapacity()
	if err != nil {
		return 0, err
	}
	if inputs <= outputs {
		return 0, nil
	}
	return SafeSubCapacity(inputs, outputs)
}

// DeadInputIndices returns the positions in InputCells whose status is
// Dead, letting a caller report which specific input failed without
// re-scanning input_cells — grounded on
// consensusstatemanager's validateBlockTransactionsAgainstPastUTXO always
// needing to name the offending input to produce a useful rule error.
func (rt *ResolvedTransaction) DeadInputIndices() []int {
	return rt.inputIndicesWithKind(Dead)
}

// UnknownInputIndices returns the positions in InputCells whose status is
// Unknown.
func (rt *ResolvedTransaction) UnknownInputIndices() []int {
	return rt.inputIndicesWithKind(Unknown)
}

func (rt *ResolvedTransaction) inputIndicesWithKind(kind StatusKind) []int {
	var indices []int
	for i, status := range rt.InputCells {
		if status.Kind == kind {
			indices = append(indices, i)
		}
	}
	return indices
}
