package store

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/storeerrors"
)

// cellCacheRecord mirrors the on-disk CELL record, cached in memory after a
// successful commit.
type cellCacheRecord struct {
	output      cell.CellOutput
	blockNumber uint64
	cellbase    bool
	spent       bool
}

// StoreBatch is a unit of atomicity over a ChainStore. A caller builds
// one, issues any of InsertBlock/InsertBlockExt/
// InsertTipHeader/AttachBlock/DetachBlock in any order, and calls Commit
// exactly once. Dropping a batch without committing discards all its
// writes — the only form of cancellation this core supports.
type StoreBatch struct {
	store    *ChainStore
	ldb      *leveldb.Batch
	headers  map[cell.Hash]cell.Header
	exts     map[cell.Hash]cell.BlockExt
	cellPuts map[cell.OutPoint]cellCacheRecord
	cellDels map[cell.OutPoint]struct{}
}

// NewBatch opens a new StoreBatch bound to s.
func (s *ChainStore) NewBatch() *StoreBatch {
	return &StoreBatch{
		store:    s,
		ldb:      new(leveldb.Batch),
		headers:  make(map[cell.Hash]cell.Header),
		exts:     make(map[cell.Hash]cell.BlockExt),
		cellPuts: make(map[cell.OutPoint]cellCacheRecord),
		cellDels: make(map[cell.OutPoint]struct{}),
	}
}

// InsertBlock writes HEADER, UNCLE, PROPOSAL_IDS, BODY, BODY_ADDRS for b.
// It does not touch indices, the CELL column, or the tip — that is
// AttachBlock's and InsertTipHeader's job, keeping storing content
// separate from installing main-chain membership.
func (b *StoreBatch) InsertBlock(block *cell.Block) error {
	h := block.Header.Hash
	b.ldb.Put(headerKey(h), encodeHeader(block.Header))
	b.ldb.Put(uncleKey(h), encodeUncles(block.Uncles))
	b.ldb.Put(proposalIDsKey(h), encodeProposalIDs(block.ProposalIDs))

	packed, addrs := flatPack(block.Transactions)
	b.ldb.Put(bodyKey(h), packed)
	b.ldb.Put(bodyAddrsKey(h), encodeAddressVector(addrs))

	b.headers[h] = block.Header
	return nil
}

// InsertBlockExt writes EXT for h.
func (b *StoreBatch) InsertBlockExt(h cell.Hash, ext cell.BlockExt) error {
	b.ldb.Put(extKey(h), encodeExt(ext))
	b.exts[h] = ext
	return nil
}

// InsertTipHeader writes the tip pointer in META.
func (b *StoreBatch) InsertTipHeader(h cell.Hash) error {
	b.ldb.Put(metaTipHeaderKey, append([]byte(nil), h[:]...))
	return nil
}

// AttachBlock installs block's per-transaction TX_ADDR entries, the
// bidirectional INDEX entry, and CELL liveness bookkeeping: every output
// block's transactions create becomes Live, and every input they spend is
// marked Dead. CKB's propose-then-commit window means a block's inputs
// never reference outputs minted earlier in the very same block, so every
// referenced CELL entry is expected to already exist on the main chain;
// violating that is an integrity fault, not a normal "cell not found"
// outcome, since a validator upstream of this core is responsible for
// rejecting a block whose inputs don't resolve before it ever reaches
// AttachBlock.
func (b *StoreBatch) AttachBlock(block *cell.Block) error {
	h := block.Header.Hash
	_, addrs := flatPack(block.Transactions)

	for i, tx := range block.Transactions {
		addr := cell.Address{BlockHash: h, Offset: addrs[i].Offset, Length: addrs[i].Length}
		b.ldb.Put(txAddrKey(tx.Hash), encodeAddress(addr))

		cellbase := i == 0
		for outIdx, output := range tx.Outputs {
			op := cell.OutPoint{TxHash: tx.Hash, Index: uint32(outIdx)}
			b.putCell(op, output, block.Header.Number, cellbase, false)
		}

		if cellbase {
			continue
		}
		for _, op := range tx.Inputs {
			if op.IsNull() {
				continue
			}
			if err := b.markCellSpent(op, true); err != nil {
				return err
			}
		}
	}

	b.ldb.Put(indexKeyByNumber(block.Header.Number), append([]byte(nil), h[:]...))
	b.ldb.Put(indexKeyByHash(h), encodeNumber(block.Header.Number))
	return nil
}

// DetachBlock is the exact inverse of AttachBlock: TX_ADDR entries and both
// INDEX entries are deleted, inputs the block spent are restored to Live,
// and outputs the block minted are removed from CELL entirely (back to
// Unknown). HEADER/BODY/etc. are left untouched so forks and reorg history
// remain addressable by hash.
func (b *StoreBatch) DetachBlock(block *cell.Block) error {
	h := block.Header.Hash

	for i, tx := range block.Transactions {
		b.ldb.Delete(txAddrKey(tx.Hash))

		cellbase := i == 0
		if !cellbase {
			for _, op := range tx.Inputs {
				if op.IsNull() {
					continue
				}
				if err := b.markCellSpent(op, false); err != nil {
					return err
				}
			}
		}
		for outIdx := range tx.Outputs {
			op := cell.OutPoint{TxHash: tx.Hash, Index: uint32(outIdx)}
			b.deleteCell(op)
		}
	}

	b.ldb.Delete(indexKeyByNumber(block.Header.Number))
	b.ldb.Delete(indexKeyByHash(h))
	return nil
}

func (b *StoreBatch) putCell(op cell.OutPoint, output cell.CellOutput, blockNumber uint64, cellbase, spent bool) {
	b.ldb.Put(cellKey(op), encodeCellRecord(output, blockNumber, cellbase, spent))
	delete(b.cellDels, op)
	b.cellPuts[op] = cellCacheRecord{output: output, blockNumber: blockNumber, cellbase: cellbase, spent: spent}
}

func (b *StoreBatch) deleteCell(op cell.OutPoint) {
	b.ldb.Delete(cellKey(op))
	delete(b.cellPuts, op)
	b.cellDels[op] = struct{}{}
}

// markCellSpent reads the CELL record for op as currently known (staged in
// this batch first, else committed on disk) and rewrites it with the given
// spent flag.
func (b *StoreBatch) markCellSpent(op cell.OutPoint, spent bool) error {
	if rec, ok := b.cellPuts[op]; ok {
		rec.spent = spent
		b.putCell(op, rec.output, rec.blockNumber, rec.cellbase, spent)
		return nil
	}
	output, blockNumber, cellbase, _, found, err := b.store.getCellRecord(op)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(storeerrors.ErrIntegrityFault,
			"attach/detach referenced outpoint %s:%d with no CELL record", op.TxHash, op.Index)
	}
	b.putCell(op, output, blockNumber, cellbase, spent)
	return nil
}

// Commit writes every staged operation atomically, then updates the
// in-process caches to match. Partial failure mid-batch is impossible by
// construction: either the whole write lands, or none of it does.
func (b *StoreBatch) Commit() error {
	if err := b.store.db.write(b.ldb); err != nil {
		return err
	}
	for h, header := range b.headers {
		b.store.headerCache.Add(h, header)
	}
	for h, ext := range b.exts {
		b.store.extCache.Add(h, ext)
	}
	for op, rec := range b.cellPuts {
		b.store.cellCache.Add(op, rec)
	}
	for op := range b.cellDels {
		b.store.cellCache.Remove(op)
	}
	return nil
}
