package store

import "github.com/ckblabs/ckb-chainstate/cell"

// getCellRecord reads the CELL entry for op, trying the read cache first.
func (s *ChainStore) getCellRecord(op cell.OutPoint) (output cell.CellOutput, blockNumber uint64, cellbase, spent, found bool, err error) {
	if v, ok := s.cellCache.Get(op); ok {
		rec := v.(cellCacheRecord)
		return rec.output, rec.blockNumber, rec.cellbase, rec.spent, true, nil
	}
	raw, found, err := s.db.get(cellKey(op))
	if err != nil || !found {
		return cell.CellOutput{}, 0, false, false, false, err
	}
	output, blockNumber, cellbase, spent, err = decodeCellRecord(raw)
	if err != nil {
		return cell.CellOutput{}, 0, false, false, false, err
	}
	s.cellCache.Add(op, cellCacheRecord{output: output, blockNumber: blockNumber, cellbase: cellbase, spent: spent})
	return output, blockNumber, cellbase, spent, true, nil
}

// KVCellProvider is the §4.1 "KV-backed provider": it reads the confirmed
// CELL index installed by ChainStore.AttachBlock/DetachBlock. It returns
// Live only for outputs whose origin block is on the main chain and whose
// output has not been marked spent, Dead for known-spent, and Unknown
// otherwise — implements cellprovider.Provider without this package
// depending on that one.
type KVCellProvider struct {
	Store *ChainStore
}

// NewKVCellProvider wraps store as a KV-backed cell provider.
func NewKVCellProvider(store *ChainStore) *KVCellProvider {
	return &KVCellProvider{Store: store}
}

// Cell implements cellprovider.Provider.
func (p *KVCellProvider) Cell(op cell.OutPoint) cell.Status {
	output, blockNumber, cellbase, spent, found, err := p.Store.getCellRecord(op)
	if err != nil {
		// Cell is a total function and cannot propagate an error; a
		// failure here is either an EngineError or an IntegrityFault. It
		// is logged at Critical level and the outpoint is reported
		// Unknown; the process is not stopped here.
		log.Criticalf("KV cell provider: %s", err)
		return cell.UnknownStatus
	}
	if !found {
		return cell.UnknownStatus
	}
	if spent {
		return cell.DeadStatus
	}
	bn := blockNumber
	return cell.LiveOutput(output, &bn, cellbase, &cell.OutPoint{TxHash: op.TxHash, Index: op.Index})
}
