package store

import "github.com/ckblabs/ckb-chainstate/cell"

// flatPack concatenates the serialized bytes of every transaction with no
// per-tx framing and records each one's byte window: BODY holds the
// concatenation, BODY_ADDRS/TX_ADDR hold the window vector. Both
// insert_block (BODY/BODY_ADDRS) and attach_block (TX_ADDR) call this so
// the offsets they record always agree, without attach_block needing to
// read back what insert_block wrote in the same batch.
func flatPack(txs []cell.Transaction) (packed []byte, addrs []cell.Address) {
	addrs = make([]cell.Address, len(txs))
	var offset uint32
	for i, tx := range txs {
		txBytes := encodeTransaction(tx)
		addrs[i] = cell.Address{Offset: offset, Length: uint32(len(txBytes))}
		packed = append(packed, txBytes...)
		offset += uint32(len(txBytes))
	}
	return packed, addrs
}
