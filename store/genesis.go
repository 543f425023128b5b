package store

import "github.com/ckblabs/ckb-chainstate/cell"

// Init installs genesis as the tip in a single atomic batch: InsertBlock,
// InsertBlockExt, InsertTipHeader, and AttachBlock. BlockExt is built the
// same way for every genesis: received_at is the header's own timestamp,
// total_difficulty is the header's own difficulty, zero uncles,
// txs_verified is Some(true) (the genesis block is definitionally valid).
func (s *ChainStore) Init(genesis *cell.Block) error {
	verified := true
	ext := cell.BlockExt{
		ReceivedAt:       genesis.Header.Timestamp,
		TotalDifficulty:  genesis.Header.Difficulty,
		TotalUnclesCount: 0,
		TxsVerified:      &verified,
	}

	batch := s.NewBatch()
	if err := batch.InsertBlock(genesis); err != nil {
		return err
	}
	if err := batch.InsertBlockExt(genesis.Header.Hash, ext); err != nil {
		return err
	}
	if err := batch.InsertTipHeader(genesis.Header.Hash); err != nil {
		return err
	}
	if err := batch.AttachBlock(genesis); err != nil {
		return err
	}
	return batch.Commit()
}
