package cellprovider

import "github.com/ckblabs/ckb-chainstate/cell"

// BlockProvider is built once from a candidate block. It resolves an
// outpoint against that single block: Dead when the block's own inputs
// reference the outpoint more than once (an intra-block double-spend — a
// single ordinary spend is left Unknown here and falls through to
// whatever view this provider is stacked over), Live for an output one
// of the block's own transactions creates, Unknown otherwise.
type BlockProvider struct {
	block *cell.Block

	// outputIndex maps a transaction hash to its positional index in the
	// block, used to synthesize Live for outputs this block itself mints.
	outputIndex map[cell.Hash]int

	// duplicateInputCounter maps every previous_output referenced by any
	// input in the block to its occurrence count.
	duplicateInputCounter map[cell.OutPoint]int
}

// NewBlockProvider builds the two lookup tables from block, once, up
// front.
func NewBlockProvider(block *cell.Block) *BlockProvider {
	p := &BlockProvider{
		block:                 block,
		outputIndex:           make(map[cell.Hash]int, len(block.Transactions)),
		duplicateInputCounter: make(map[cell.OutPoint]int),
	}
	for i, tx := range block.Transactions {
		p.outputIndex[tx.Hash] = i
		for _, in := range tx.Inputs {
			if in.IsNull() {
				continue
			}
			p.duplicateInputCounter[in]++
		}
	}
	return p
}

// Cell implements Provider: a cell referenced more than once by this
// block's inputs (a genuine intra-block double-spend) shadows anything
// the block itself would otherwise mint or anything a lower view
// reports, before a cell this block mints is considered, before falling
// through to Unknown.
func (p *BlockProvider) Cell(outPoint cell.OutPoint) cell.Status {
	if p.duplicateInputCounter[outPoint] > 1 {
		return cell.DeadStatus
	}
	i, ok := p.outputIndex[outPoint.TxHash]
	if !ok {
		return cell.UnknownStatus
	}
	tx := p.block.Transactions[i]
	if int(outPoint.Index) >= len(tx.Outputs) {
		return cell.UnknownStatus
	}
	output := tx.Outputs[outPoint.Index]
	blockNumber := p.block.Header.Number
	op := outPoint
	return cell.LiveOutput(output, &blockNumber, i == 0, &op)
}

// TransactionProvider is a degenerate BlockProvider used when resolving a
// single transaction in isolation (e.g. mempool admission of a
// self-referential tx). It carries only the duplicate-input counter: Dead
// for any outpoint the transaction itself references more than once, else
// Unknown (an ordinary single reference falls through), so it detects an
// intra-transaction double-spend when stacked over a store provider.
type TransactionProvider struct {
	duplicateInputCounter map[cell.OutPoint]int
}

// NewTransactionProvider builds the duplicate-input counter for tx.
func NewTransactionProvider(tx *cell.Transaction) *TransactionProvider {
	p := &TransactionProvider{duplicateInputCounter: make(map[cell.OutPoint]int)}
	for _, in := range tx.Inputs {
		if in.IsNull() {
			continue
		}
		p.duplicateInputCounter[in]++
	}
	return p
}

// Cell implements Provider.
func (p *TransactionProvider) Cell(outPoint cell.OutPoint) cell.Status {
	if p.duplicateInputCounter[outPoint] > 1 {
		return cell.DeadStatus
	}
	return cell.UnknownStatus
}
