package store

// The stable binary codec for every well-typed column (HEADER, UNCLE,
// PROPOSAL_IDS, EXT, TX_ADDR, INDEX-by-hash values) and for the
// flat-packed transaction bytes written into BODY. Hand-rolled on
// encoding/binary, following the wire.ReadElement / wire.WriteElement /
// WriteVarInt family rather than a third-party serialization library —
// see SPEC_FULL.md's domain-stack note on why the newer protobuf-backed
// database/serialization idiom is not followed here.

import (
	"encoding/binary"
	"io"

	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/storeerrors"
	"github.com/pkg/errors"
)

type byteWriter struct {
	buf []byte
}

func (w *byteWriter) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeByte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *byteWriter) writeHash(h cell.Hash) {
	w.buf = append(w.buf, h[:]...)
}

func (w *byteWriter) writeBytes(b []byte) {
	w.writeUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *byteWriter) writeBool(b bool) {
	if b {
		w.writeByte(1)
	} else {
		w.writeByte(0)
	}
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *byteReader) readHash() (cell.Hash, error) {
	var h cell.Hash
	if r.pos+cell.HashSize > len(r.buf) {
		return h, io.ErrUnexpectedEOF
	}
	copy(h[:], r.buf[r.pos:r.pos+cell.HashSize])
	r.pos += cell.HashSize
	return h, nil
}

func (r *byteReader) readBytes() ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	copy(b, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return b, nil
}

func (r *byteReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *byteReader) done() bool {
	return r.pos >= len(r.buf)
}

// --- header ---

func encodeHeader(h cell.Header) []byte {
	w := &byteWriter{}
	w.writeUint64(h.Number)
	w.writeHash(h.Hash)
	w.writeUint64(h.Timestamp)
	w.writeUint64(h.Difficulty)
	return w.buf
}

func decodeHeader(b []byte) (cell.Header, error) {
	var h cell.Header
	r := &byteReader{buf: b}
	var err error
	if h.Number, err = r.readUint64(); err != nil {
		return h, integrityErr(err, "header.number")
	}
	if h.Hash, err = r.readHash(); err != nil {
		return h, integrityErr(err, "header.hash")
	}
	if h.Timestamp, err = r.readUint64(); err != nil {
		return h, integrityErr(err, "header.timestamp")
	}
	if h.Difficulty, err = r.readUint64(); err != nil {
		return h, integrityErr(err, "header.difficulty")
	}
	return h, nil
}

// --- uncles ---

func encodeUncles(uncles []cell.Header) []byte {
	w := &byteWriter{}
	w.writeUint32(uint32(len(uncles)))
	for _, u := range uncles {
		w.buf = append(w.buf, encodeHeader(u)...)
	}
	return w.buf
}

func decodeUncles(b []byte) ([]cell.Header, error) {
	r := &byteReader{buf: b}
	n, err := r.readUint32()
	if err != nil {
		return nil, integrityErr(err, "uncles.count")
	}
	uncles := make([]cell.Header, 0, n)
	for i := uint32(0); i < n; i++ {
		const headerLen = 8 + cell.HashSize + 8 + 8
		if r.pos+headerLen > len(r.buf) {
			return nil, integrityErr(io.ErrUnexpectedEOF, "uncles.entry")
		}
		h, err := decodeHeader(r.buf[r.pos : r.pos+headerLen])
		if err != nil {
			return nil, err
		}
		r.pos += headerLen
		uncles = append(uncles, h)
	}
	return uncles, nil
}

// --- proposal ids ---

func encodeProposalIDs(ids []cell.ProposalID) []byte {
	w := &byteWriter{}
	w.writeUint32(uint32(len(ids)))
	for _, id := range ids {
		w.buf = append(w.buf, id[:]...)
	}
	return w.buf
}

func decodeProposalIDs(b []byte) ([]cell.ProposalID, error) {
	r := &byteReader{buf: b}
	n, err := r.readUint32()
	if err != nil {
		return nil, integrityErr(err, "proposal_ids.count")
	}
	ids := make([]cell.ProposalID, 0, n)
	for i := uint32(0); i < n; i++ {
		if r.pos+cell.ProposalIDSize > len(r.buf) {
			return nil, integrityErr(io.ErrUnexpectedEOF, "proposal_ids.entry")
		}
		var id cell.ProposalID
		copy(id[:], r.buf[r.pos:r.pos+cell.ProposalIDSize])
		r.pos += cell.ProposalIDSize
		ids = append(ids, id)
	}
	return ids, nil
}

// --- block ext ---

func encodeExt(ext cell.BlockExt) []byte {
	w := &byteWriter{}
	w.writeUint64(ext.ReceivedAt)
	w.writeUint64(ext.TotalDifficulty)
	w.writeUint64(ext.TotalUnclesCount)
	if ext.TxsVerified == nil {
		w.writeByte(0)
	} else if *ext.TxsVerified {
		w.writeByte(2)
	} else {
		w.writeByte(1)
	}
	return w.buf
}

func decodeExt(b []byte) (cell.BlockExt, error) {
	var ext cell.BlockExt
	r := &byteReader{buf: b}
	var err error
	if ext.ReceivedAt, err = r.readUint64(); err != nil {
		return ext, integrityErr(err, "ext.received_at")
	}
	if ext.TotalDifficulty, err = r.readUint64(); err != nil {
		return ext, integrityErr(err, "ext.total_difficulty")
	}
	if ext.TotalUnclesCount, err = r.readUint64(); err != nil {
		return ext, integrityErr(err, "ext.total_uncles_count")
	}
	tag, err := r.readByte()
	if err != nil {
		return ext, integrityErr(err, "ext.txs_verified")
	}
	switch tag {
	case 0:
		ext.TxsVerified = nil
	case 1:
		v := false
		ext.TxsVerified = &v
	case 2:
		v := true
		ext.TxsVerified = &v
	default:
		return ext, integrityErr(errors.Errorf("unknown tri-state tag %d", tag), "ext.txs_verified")
	}
	return ext, nil
}

// --- transaction address ---

func encodeAddress(addr cell.Address) []byte {
	w := &byteWriter{}
	w.writeHash(addr.BlockHash)
	w.writeUint32(addr.Offset)
	w.writeUint32(addr.Length)
	return w.buf
}

func decodeAddress(b []byte) (cell.Address, error) {
	var addr cell.Address
	r := &byteReader{buf: b}
	var err error
	if addr.BlockHash, err = r.readHash(); err != nil {
		return addr, integrityErr(err, "tx_addr.block_hash")
	}
	if addr.Offset, err = r.readUint32(); err != nil {
		return addr, integrityErr(err, "tx_addr.offset")
	}
	if addr.Length, err = r.readUint32(); err != nil {
		return addr, integrityErr(err, "tx_addr.length")
	}
	return addr, nil
}

// --- body address vector (BODY_ADDRS: one (offset,length) per tx) ---

func encodeAddressVector(addrs []cell.Address) []byte {
	w := &byteWriter{}
	w.writeUint32(uint32(len(addrs)))
	for _, addr := range addrs {
		w.buf = append(w.buf, encodeAddress(addr)...)
	}
	return w.buf
}

func decodeAddressVector(b []byte) ([]cell.Address, error) {
	r := &byteReader{buf: b}
	n, err := r.readUint32()
	if err != nil {
		return nil, integrityErr(err, "body_addrs.count")
	}
	const entryLen = cell.HashSize + 4 + 4
	addrs := make([]cell.Address, 0, n)
	for i := uint32(0); i < n; i++ {
		if r.pos+entryLen > len(r.buf) {
			return nil, integrityErr(io.ErrUnexpectedEOF, "body_addrs.entry")
		}
		addr, err := decodeAddress(r.buf[r.pos : r.pos+entryLen])
		if err != nil {
			return nil, err
		}
		r.pos += entryLen
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// --- index-by-hash value (a bare little-endian block number) ---

func encodeNumber(n uint64) []byte {
	w := &byteWriter{}
	w.writeUint64(n)
	return w.buf
}

func decodeNumber(b []byte) (uint64, error) {
	r := &byteReader{buf: b}
	n, err := r.readUint64()
	if err != nil {
		return 0, integrityErr(err, "index.number")
	}
	return n, nil
}

// --- outpoint / script / cell output / transaction ---

func encodeOutPoint(w *byteWriter, op cell.OutPoint) {
	w.writeHash(op.TxHash)
	w.writeUint32(op.Index)
}

func decodeOutPoint(r *byteReader) (cell.OutPoint, error) {
	var op cell.OutPoint
	var err error
	if op.TxHash, err = r.readHash(); err != nil {
		return op, err
	}
	if op.Index, err = r.readUint32(); err != nil {
		return op, err
	}
	return op, nil
}

func encodeScript(w *byteWriter, s *cell.Script) {
	if s == nil {
		w.writeBool(false)
		return
	}
	w.writeBool(true)
	w.writeHash(s.CodeHash)
	w.writeByte(s.HashType)
	w.writeBytes(s.Args)
}

func decodeScript(r *byteReader) (*cell.Script, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	s := &cell.Script{}
	if s.CodeHash, err = r.readHash(); err != nil {
		return nil, err
	}
	if s.HashType, err = r.readByte(); err != nil {
		return nil, err
	}
	if s.Args, err = r.readBytes(); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeCellOutput(w *byteWriter, o cell.CellOutput) {
	w.writeUint64(o.Capacity)
	w.writeBytes(o.Data)
	encodeScript(w, &o.Lock)
	encodeScript(w, o.Type)
}

func decodeCellOutput(r *byteReader) (cell.CellOutput, error) {
	var o cell.CellOutput
	var err error
	if o.Capacity, err = r.readUint64(); err != nil {
		return o, err
	}
	if o.Data, err = r.readBytes(); err != nil {
		return o, err
	}
	lock, err := decodeScript(r)
	if err != nil {
		return o, err
	}
	if lock != nil {
		o.Lock = *lock
	}
	if o.Type, err = decodeScript(r); err != nil {
		return o, err
	}
	return o, nil
}

// encodeTransaction serializes tx for use inside a flat-packed BODY value.
// It carries no outer framing of its own: the caller records the returned
// byte window in BODY_ADDRS/TX_ADDR.
func encodeTransaction(tx cell.Transaction) []byte {
	w := &byteWriter{}
	w.writeHash(tx.Hash)
	w.writeUint32(tx.Version)

	w.writeUint32(uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		encodeOutPoint(w, in)
	}

	w.writeUint32(uint32(len(tx.DepCells)))
	for _, dep := range tx.DepCells {
		encodeOutPoint(w, dep)
	}

	w.writeUint32(uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		encodeCellOutput(w, out)
	}

	w.writeUint32(uint32(len(tx.OutputsData)))
	for _, d := range tx.OutputsData {
		w.writeBytes(d)
	}

	return w.buf
}

func decodeTransaction(b []byte) (cell.Transaction, error) {
	var tx cell.Transaction
	r := &byteReader{buf: b}
	var err error

	if tx.Hash, err = r.readHash(); err != nil {
		return tx, integrityErr(err, "tx.hash")
	}
	if tx.Version, err = r.readUint32(); err != nil {
		return tx, integrityErr(err, "tx.version")
	}

	nIn, err := r.readUint32()
	if err != nil {
		return tx, integrityErr(err, "tx.inputs.count")
	}
	tx.Inputs = make([]cell.OutPoint, 0, nIn)
	for i := uint32(0); i < nIn; i++ {
		op, err := decodeOutPoint(r)
		if err != nil {
			return tx, integrityErr(err, "tx.inputs.entry")
		}
		tx.Inputs = append(tx.Inputs, op)
	}

	nDep, err := r.readUint32()
	if err != nil {
		return tx, integrityErr(err, "tx.deps.count")
	}
	tx.DepCells = make([]cell.OutPoint, 0, nDep)
	for i := uint32(0); i < nDep; i++ {
		op, err := decodeOutPoint(r)
		if err != nil {
			return tx, integrityErr(err, "tx.deps.entry")
		}
		tx.DepCells = append(tx.DepCells, op)
	}

	nOut, err := r.readUint32()
	if err != nil {
		return tx, integrityErr(err, "tx.outputs.count")
	}
	tx.Outputs = make([]cell.CellOutput, 0, nOut)
	for i := uint32(0); i < nOut; i++ {
		o, err := decodeCellOutput(r)
		if err != nil {
			return tx, integrityErr(err, "tx.outputs.entry")
		}
		tx.Outputs = append(tx.Outputs, o)
	}

	nData, err := r.readUint32()
	if err != nil {
		return tx, integrityErr(err, "tx.outputs_data.count")
	}
	tx.OutputsData = make([][]byte, 0, nData)
	for i := uint32(0); i < nData; i++ {
		d, err := r.readBytes()
		if err != nil {
			return tx, integrityErr(err, "tx.outputs_data.entry")
		}
		tx.OutputsData = append(tx.OutputsData, d)
	}

	return tx, nil
}

func integrityErr(cause error, field string) error {
	return errors.Wrapf(storeerrors.ErrIntegrityFault, "%s: %s", field, cause)
}

// --- cell record (CELL column: outpoint -> (CellMeta, spent)) ---

// encodeCellRecord serializes the output and origin metadata minted at an
// outpoint together with its current spent flag. The outpoint itself is
// not repeated here — it is the key under which this record is stored.
func encodeCellRecord(output cell.CellOutput, blockNumber uint64, cellbase, spent bool) []byte {
	w := &byteWriter{}
	encodeCellOutput(w, output)
	w.writeUint64(blockNumber)
	w.writeBool(cellbase)
	w.writeBool(spent)
	return w.buf
}

func decodeCellRecord(b []byte) (output cell.CellOutput, blockNumber uint64, cellbase, spent bool, err error) {
	r := &byteReader{buf: b}
	if output, err = decodeCellOutput(r); err != nil {
		return output, 0, false, false, integrityErr(err, "cell.output")
	}
	if blockNumber, err = r.readUint64(); err != nil {
		return output, 0, false, false, integrityErr(err, "cell.block_number")
	}
	if cellbase, err = r.readBool(); err != nil {
		return output, 0, false, false, integrityErr(err, "cell.cellbase")
	}
	if spent, err = r.readBool(); err != nil {
		return output, 0, false, false, integrityErr(err, "cell.spent")
	}
	return output, blockNumber, cellbase, spent, nil
}
