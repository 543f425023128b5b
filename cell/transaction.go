package cell

// ProposalIDSize is the fixed length of a proposal short id.
const ProposalIDSize = 10

// ProposalID is a short identifier referencing a proposed (not yet
// committed) transaction.
type ProposalID [ProposalIDSize]byte

// Transaction carries inputs (each naming a previous_output), dependency
// outpoints (read-only references to cells whose outputs supply
// scripts/data), outputs with their per-output data, and a version.
type Transaction struct {
	Hash        Hash
	Version     uint32
	Inputs      []OutPoint
	DepCells    []OutPoint
	Outputs     []CellOutput
	OutputsData [][]byte
}

// IsCellbase reports whether tx has the reserved coinbase input shape: a
// single input whose previous_output is the null outpoint. A cellbase
// contributes no resolved inputs.
func (tx *Transaction) IsCellbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].IsNull()
}

// OutputsCapacity sums tx's output capacities with checked arithmetic.
func (tx *Transaction) OutputsCapacity() (uint64, error) {
	return SumOutputsCapacity(tx.Outputs)
}
