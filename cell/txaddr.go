package cell

// Address is the physical slice of a block body where a transaction's
// bytes live, enabling a point-read of a single transaction without
// deserializing the whole body.
type Address struct {
	BlockHash Hash
	Offset    uint32
	Length    uint32
}
