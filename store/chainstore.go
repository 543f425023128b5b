// Package store is the durable substrate of the on-chain state core: the
// column layout, serialization, typed read operations, and the atomic
// write-batch abstraction. It is the only package in this module that
// touches a key/value engine.
package store

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/config"
	"github.com/ckblabs/ckb-chainstate/logger"
	"github.com/ckblabs/ckb-chainstate/storeerrors"
)

var log, _ = logger.Get(logger.SubsystemTags.STOR)

// ChainStore owns the column-oriented key/value substrate: block
// headers/bodies/extras/indices, and the CELL liveness index backing the
// KV-backed cell provider (see KVCellProvider). All of its read operations
// are pure functions of the current on-disk state; absence of a key is
// reported as (_, false, nil), never an error.
type ChainStore struct {
	db *levelDB

	headerCache *lru.Cache
	extCache    *lru.Cache
	cellCache   *lru.Cache
}

// New opens (or creates) a ChainStore under params.DataDir, fronting
// HEADER/EXT/CELL reads with an in-process LRU cache sized per
// params.Cache: caching never mutates observable cell state, only read
// latency. Grounded on bchd's two-tier utxocache.go design.
func New(params config.Params) (*ChainStore, error) {
	db, err := openLevelDB(params.DataDir)
	if err != nil {
		return nil, err
	}
	headerCache, err := lru.New(params.Cache.Header)
	if err != nil {
		return nil, errors.Wrap(err, "allocate header cache")
	}
	extCache, err := lru.New(params.Cache.Ext)
	if err != nil {
		return nil, errors.Wrap(err, "allocate ext cache")
	}
	cellCache, err := lru.New(params.Cache.Cell)
	if err != nil {
		return nil, errors.Wrap(err, "allocate cell cache")
	}
	return &ChainStore{db: db, headerCache: headerCache, extCache: extCache, cellCache: cellCache}, nil
}

// Close releases the underlying engine handle.
func (s *ChainStore) Close() error {
	return s.db.close()
}

// GetHeader is a single point read on HEADER.
func (s *ChainStore) GetHeader(h cell.Hash) (cell.Header, bool, error) {
	if v, ok := s.headerCache.Get(h); ok {
		return v.(cell.Header), true, nil
	}
	raw, found, err := s.db.get(headerKey(h))
	if err != nil || !found {
		return cell.Header{}, false, err
	}
	header, err := decodeHeader(raw)
	if err != nil {
		return cell.Header{}, false, err
	}
	s.headerCache.Add(h, header)
	return header, true, nil
}

// GetBlockUncles is a single point read on UNCLE.
func (s *ChainStore) GetBlockUncles(h cell.Hash) ([]cell.Header, bool, error) {
	raw, found, err := s.db.get(uncleKey(h))
	if err != nil || !found {
		return nil, false, err
	}
	uncles, err := decodeUncles(raw)
	if err != nil {
		return nil, false, err
	}
	return uncles, true, nil
}

// GetBlockProposalTxsIDs is a single point read on PROPOSAL_IDS.
func (s *ChainStore) GetBlockProposalTxsIDs(h cell.Hash) ([]cell.ProposalID, bool, error) {
	raw, found, err := s.db.get(proposalIDsKey(h))
	if err != nil || !found {
		return nil, false, err
	}
	ids, err := decodeProposalIDs(raw)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// GetBlockExt is a single point read on EXT.
func (s *ChainStore) GetBlockExt(h cell.Hash) (cell.BlockExt, bool, error) {
	if v, ok := s.extCache.Get(h); ok {
		return v.(cell.BlockExt), true, nil
	}
	raw, found, err := s.db.get(extKey(h))
	if err != nil || !found {
		return cell.BlockExt{}, false, err
	}
	ext, err := decodeExt(raw)
	if err != nil {
		return cell.BlockExt{}, false, err
	}
	s.extCache.Add(h, ext)
	return ext, true, nil
}

// GetBlockBody reads BODY_ADDRS then BODY, slicing out each recorded
// window and reconstructing the transactions. Absence of either column
// reports absence, never an error.
func (s *ChainStore) GetBlockBody(h cell.Hash) ([]cell.Transaction, bool, error) {
	addrsRaw, found, err := s.db.get(bodyAddrsKey(h))
	if err != nil || !found {
		return nil, false, err
	}
	addrs, err := decodeAddressVector(addrsRaw)
	if err != nil {
		return nil, false, err
	}
	bodyRaw, found, err := s.db.get(bodyKey(h))
	if err != nil || !found {
		return nil, false, err
	}
	txs := make([]cell.Transaction, len(addrs))
	for i, addr := range addrs {
		if uint64(addr.Offset)+uint64(addr.Length) > uint64(len(bodyRaw)) {
			return nil, false, integrityErr(errors.Errorf("window out of range"), "body.window")
		}
		tx, err := decodeTransaction(bodyRaw[addr.Offset : addr.Offset+addr.Length])
		if err != nil {
			return nil, false, err
		}
		txs[i] = tx
	}
	return txs, true, nil
}

// GetBlock composes header + body + uncles + proposals. Precondition: if
// the header exists, all four auxiliary columns exist for the same hash.
// Violation is a store-integrity fault, reported as an error wrapping
// storeerrors.ErrIntegrityFault. This package never calls os.Exit itself
// so it stays testable; a caller at the process boundary is expected to
// treat ErrIntegrityFault as fatal.
func (s *ChainStore) GetBlock(h cell.Hash) (*cell.Block, bool, error) {
	header, found, err := s.GetHeader(h)
	if err != nil || !found {
		return nil, false, err
	}
	uncles, found, err := s.GetBlockUncles(h)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, s.integrityFault(h, "uncles")
	}
	proposalIDs, found, err := s.GetBlockProposalTxsIDs(h)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, s.integrityFault(h, "proposal_ids")
	}
	txs, found, err := s.GetBlockBody(h)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, s.integrityFault(h, "body")
	}
	return &cell.Block{Header: header, Uncles: uncles, Transactions: txs, ProposalIDs: proposalIDs}, true, nil
}

func (s *ChainStore) integrityFault(h cell.Hash, missingColumn string) error {
	err := errors.Wrapf(storeerrors.ErrIntegrityFault, "block %s has a header but is missing %s", h, missingColumn)
	log.Criticalf("%s", err)
	return err
}

// GetBlockHash is a point read on INDEX (number -> hash).
func (s *ChainStore) GetBlockHash(n uint64) (cell.Hash, bool, error) {
	raw, found, err := s.db.get(indexKeyByNumber(n))
	if err != nil || !found {
		return cell.Hash{}, false, err
	}
	if len(raw) != cell.HashSize {
		return cell.Hash{}, false, integrityErr(errors.Errorf("bad length %d", len(raw)), "index.hash")
	}
	var h cell.Hash
	copy(h[:], raw)
	return h, true, nil
}

// GetBlockNumber is a point read on INDEX (hash -> number).
func (s *ChainStore) GetBlockNumber(h cell.Hash) (uint64, bool, error) {
	raw, found, err := s.db.get(indexKeyByHash(h))
	if err != nil || !found {
		return 0, false, err
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// GetTipHeader reads the tip pointer from META, then fetches its header.
func (s *ChainStore) GetTipHeader() (cell.Header, bool, error) {
	raw, found, err := s.db.get(metaTipHeaderKey)
	if err != nil || !found {
		return cell.Header{}, false, err
	}
	if len(raw) != cell.HashSize {
		return cell.Header{}, false, integrityErr(errors.Errorf("bad length %d", len(raw)), "meta.tip_header")
	}
	var h cell.Hash
	copy(h[:], raw)
	return s.GetHeader(h)
}

// GetTransactionAddress is a point read on TX_ADDR.
func (s *ChainStore) GetTransactionAddress(h cell.Hash) (cell.Address, bool, error) {
	raw, found, err := s.db.get(txAddrKey(h))
	if err != nil || !found {
		return cell.Address{}, false, err
	}
	addr, err := decodeAddress(raw)
	if err != nil {
		return cell.Address{}, false, err
	}
	return addr, true, nil
}

// GetTransaction looks up h's TX_ADDR, then reads the block's BODY value
// once and decodes only the recorded window, so no other transaction of
// the body is deserialized. The read itself fetches the whole BODY value;
// the engine wrapper has no partial-read operation.
func (s *ChainStore) GetTransaction(h cell.Hash) (cell.Transaction, bool, error) {
	addr, found, err := s.GetTransactionAddress(h)
	if err != nil || !found {
		return cell.Transaction{}, false, err
	}
	bodyRaw, found, err := s.db.get(bodyKey(addr.BlockHash))
	if err != nil || !found {
		return cell.Transaction{}, false, err
	}
	if uint64(addr.Offset)+uint64(addr.Length) > uint64(len(bodyRaw)) {
		return cell.Transaction{}, false, integrityErr(errors.Errorf("window out of range"), "tx_addr.window")
	}
	tx, err := decodeTransaction(bodyRaw[addr.Offset : addr.Offset+addr.Length])
	if err != nil {
		return cell.Transaction{}, false, err
	}
	return tx, true, nil
}

// GetBlockHashesByRange scans INDEX[number] over [from, to) using a prefix
// cursor. Because block-number keys are big-endian and fixed-width,
// lexical cursor order equals numeric order, so the scan can stop as soon
// as it passes `to` without examining the whole column.
func (s *ChainStore) GetBlockHashesByRange(from, to uint64) ([]cell.Hash, error) {
	if to <= from {
		return nil, nil
	}
	prefix := []byte{colIndex, indexTagByNumber}
	it := s.db.cursor(prefix)
	defer it.Release()

	var hashes []cell.Hash
	for it.Next() {
		key := it.Key()
		if len(key) != len(prefix)+8 {
			continue
		}
		n := decodeIndexNumberKey(key[len(prefix):])
		if n < from {
			continue
		}
		if n >= to {
			break
		}
		value := it.Value()
		if len(value) != cell.HashSize {
			return nil, integrityErr(errors.Errorf("bad length %d", len(value)), "index.hash")
		}
		var h cell.Hash
		copy(h[:], value)
		hashes = append(hashes, h)
	}
	if err := it.Error(); err != nil {
		return nil, storeEngineErr(err)
	}
	return hashes, nil
}
