package store

import (
	"encoding/binary"

	"github.com/ckblabs/ckb-chainstate/cell"
)

// Column prefixes. goleveldb has no native column families, so every
// logical column is realized as a one-byte key prefix inside a single
// LevelDB instance, the same flat-keyspace-with-bucket-prefix idiom as
// database.MakeBucket's bucket/countKey pattern.
const (
	colHeader      byte = 'h'
	colUncle       byte = 'u'
	colProposalIDs byte = 'p'
	colBody        byte = 'b'
	colBodyAddrs   byte = 'a'
	colExt         byte = 'e'
	colIndex       byte = 'i'
	colTxAddr      byte = 't'
	colMeta        byte = 'm'
	colCell        byte = 'c'
)

// Within colIndex, a second tag byte distinguishes the hash->number and
// number->hash key spaces so they cannot collide. A hash key is 1
// (column) + 1 (tag) + 32 (hash) = 34 bytes; a number key is 1 + 1 + 8 =
// 10 bytes, so the two spaces cannot collide even if the tag byte were
// dropped.
const (
	indexTagByHash   byte = 'H'
	indexTagByNumber byte = 'N'
)

var metaTipHeaderKey = []byte{colMeta, 't', 'i', 'p'}

func headerKey(h cell.Hash) []byte {
	return append([]byte{colHeader}, h[:]...)
}

func uncleKey(h cell.Hash) []byte {
	return append([]byte{colUncle}, h[:]...)
}

func proposalIDsKey(h cell.Hash) []byte {
	return append([]byte{colProposalIDs}, h[:]...)
}

func bodyKey(h cell.Hash) []byte {
	return append([]byte{colBody}, h[:]...)
}

func bodyAddrsKey(h cell.Hash) []byte {
	return append([]byte{colBodyAddrs}, h[:]...)
}

func extKey(h cell.Hash) []byte {
	return append([]byte{colExt}, h[:]...)
}

func txAddrKey(h cell.Hash) []byte {
	return append([]byte{colTxAddr}, h[:]...)
}

func indexKeyByHash(h cell.Hash) []byte {
	key := make([]byte, 0, 2+cell.HashSize)
	key = append(key, colIndex, indexTagByHash)
	key = append(key, h[:]...)
	return key
}

// indexKeyByNumber encodes n big-endian so that lexical key order (what
// the LevelDB cursor walks) equals numeric order, letting
// GetBlockHashesByRange stop as soon as it passes the upper bound instead
// of scanning the whole column. decodeIndexNumberKey is its inverse; the
// number->hash *value* uses the little-endian encodeNumber/decodeNumber
// pair instead, since only the key needs to sort.
func indexKeyByNumber(n uint64) []byte {
	key := make([]byte, 2+8)
	key[0] = colIndex
	key[1] = indexTagByNumber
	binary.BigEndian.PutUint64(key[2:], n)
	return key
}

func decodeIndexNumberKey(suffix []byte) uint64 {
	return binary.BigEndian.Uint64(suffix)
}

func cellKey(op cell.OutPoint) []byte {
	key := make([]byte, 0, 1+cell.HashSize+4)
	key = append(key, colCell)
	key = append(key, op.TxHash[:]...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], op.Index)
	return append(key, idx[:]...)
}
