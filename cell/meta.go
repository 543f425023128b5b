package cell

// CellMeta envelopes a CellOutput with lookup metadata derived from the
// view that produced it: the block_number that minted it (nil when the
// cell is not yet in a committed block) and a cellbase flag marking
// coinbase-style origin. Two CellMetas referring to the same outpoint must
// agree on the output and on cellbase-ness.
//
// OutPoint is an optional backreference, ported from the original cell.rs
// CellMeta (the distilled spec drops it): it lets a CellStatus::Live value
// be self-describing without the caller re-threading the outpoint that
// produced it.
type CellMeta struct {
	CellOutput  CellOutput
	BlockNumber *uint64
	Cellbase    bool
	OutPoint    *OutPoint
}

// IsCellbase reports whether the cell originated from a cellbase
// transaction.
func (m *CellMeta) IsCellbase() bool {
	return m != nil && m.Cellbase
}

// Capacity returns the capacity of the enveloped output.
func (m *CellMeta) Capacity() uint64 {
	return m.CellOutput.Capacity
}
