// Package resolver implements the transaction resolver: it classifies a
// transaction's inputs and dependencies against a cell provider and
// assembles the ResolvedTransaction a verifier consumes.
package resolver

import (
	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/cellprovider"
	"github.com/ckblabs/ckb-chainstate/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.RSLV)

// Resolve classifies each of tx's inputs and dependencies by calling
// provider.Cell in declared order, and assembles the ResolvedTransaction
// downstream validators consume. A cellbase transaction gets no resolved
// inputs (cell.ResolvedTransaction.IsCellbase is derived from this):
// input_cells.len() == 0 iff tx.is_cellbase().
//
// The view used to resolve is fixed for the lifetime of the returned
// object: re-resolving against a newer provider produces a new one.
func Resolve(tx cell.Transaction, provider cellprovider.Provider) *cell.ResolvedTransaction {
	var inputCells []cell.Status
	if !tx.IsCellbase() {
		inputCells = make([]cell.Status, len(tx.Inputs))
		for i, in := range tx.Inputs {
			inputCells[i] = provider.Cell(in)
		}
	}

	depCells := make([]cell.Status, len(tx.DepCells))
	for i, dep := range tx.DepCells {
		depCells[i] = provider.Cell(dep)
	}

	rt := &cell.ResolvedTransaction{
		Transaction: tx,
		InputCells:  inputCells,
		DepCells:    depCells,
	}
	if dead := rt.DeadInputIndices(); len(dead) > 0 {
		log.Debugf("resolved tx %s with %d dead input(s): %v", tx.Hash, len(dead), dead)
	}
	return rt
}
