package cellprovider

import (
	"testing"

	"github.com/ckblabs/ckb-chainstate/cell"
)

func mustHash(b byte) cell.Hash {
	var h cell.Hash
	h[0] = b
	return h
}

func op(txByte byte, index uint32) cell.OutPoint {
	return cell.OutPoint{TxHash: mustHash(txByte), Index: index}
}

// TestOverlayComposition checks overlay(A,B).cell(o) = A.cell(o)
// whenever A.cell(o) != Unknown, else B.cell(o).
func TestOverlayComposition(t *testing.T) {
	liveMeta := &cell.CellMeta{CellOutput: cell.CellOutput{Capacity: 1}}

	tests := []struct {
		name string
		top  cell.Status
		want cell.Status
	}{
		{"top live wins", cell.LiveStatus(liveMeta), cell.LiveStatus(liveMeta)},
		{"top dead wins", cell.DeadStatus, cell.DeadStatus},
		{"top unknown falls through to bottom", cell.UnknownStatus, cell.LiveStatus(liveMeta)},
	}

	target := op(1, 0)
	bottom := ProviderFunc(func(o cell.OutPoint) cell.Status {
		if o == target {
			return cell.LiveStatus(liveMeta)
		}
		return cell.UnknownStatus
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := ProviderFunc(func(o cell.OutPoint) cell.Status { return tt.top })
			got := Overlay(top, bottom).Cell(target)
			if got.Kind != tt.want.Kind {
				t.Fatalf("Overlay.Cell() kind = %v, want %v", got.Kind, tt.want.Kind)
			}
		})
	}
}

// TestOverlayShadowing checks that when the store says Live but a
// stacked overlay says Dead, the composite reports Dead.
func TestOverlayShadowing(t *testing.T) {
	target := op(2, 0)
	store := ProviderFunc(func(cell.OutPoint) cell.Status {
		return cell.LiveStatus(&cell.CellMeta{CellOutput: cell.CellOutput{Capacity: 5}})
	})
	overlay := ProviderFunc(func(cell.OutPoint) cell.Status { return cell.DeadStatus })

	got := Overlay(overlay, store).Cell(target)
	if !got.IsDead() {
		t.Fatalf("Overlay(overlay, store).Cell() = %v, want Dead", got.Kind)
	}
}

func TestChainFoldsLeftToRight(t *testing.T) {
	target := op(3, 0)
	unknown := ProviderFunc(func(cell.OutPoint) cell.Status { return cell.UnknownStatus })
	dead := ProviderFunc(func(cell.OutPoint) cell.Status { return cell.DeadStatus })
	live := ProviderFunc(func(cell.OutPoint) cell.Status {
		return cell.LiveStatus(&cell.CellMeta{CellOutput: cell.CellOutput{Capacity: 1}})
	})

	got := Chain(unknown, dead, live).Cell(target)
	if !got.IsDead() {
		t.Fatalf("Chain(unknown, dead, live).Cell() = %v, want Dead (dead shadows live)", got.Kind)
	}

	got = Chain(unknown, unknown, live).Cell(target)
	if !got.IsLive() {
		t.Fatalf("Chain(unknown, unknown, live).Cell() = %v, want Live", got.Kind)
	}
}

func TestUnknownCellOnEmptyProvider(t *testing.T) {
	empty := ProviderFunc(func(cell.OutPoint) cell.Status { return cell.UnknownStatus })
	got := empty.Cell(op(0, 1))
	if !got.IsUnknown() {
		t.Fatalf("empty provider = %v, want Unknown", got.Kind)
	}
}

// TestBlockProviderMintsOwnOutputs checks the Live branch of the block
// provider's resolution order: an output created by the block's own
// transaction resolves Live, with cellbase true only for transaction 0.
func TestBlockProviderMintsOwnOutputs(t *testing.T) {
	cellbaseTx := cell.Transaction{Hash: mustHash(10), Outputs: []cell.CellOutput{{Capacity: 100}}}
	normalTx := cell.Transaction{
		Hash:    mustHash(11),
		Inputs:  []cell.OutPoint{op(20, 0)},
		Outputs: []cell.CellOutput{{Capacity: 50}},
	}
	block := &cell.Block{
		Header:       cell.Header{Number: 7},
		Transactions: []cell.Transaction{cellbaseTx, normalTx},
	}
	provider := NewBlockProvider(block)

	got := provider.Cell(op(10, 0))
	if !got.IsLive() || !got.Meta.Cellbase || *got.Meta.BlockNumber != 7 {
		t.Fatalf("cellbase output resolved to %+v, want Live cellbase at block 7", got)
	}

	got = provider.Cell(op(11, 0))
	if !got.IsLive() || got.Meta.Cellbase {
		t.Fatalf("normal tx output resolved to %+v, want Live non-cellbase", got)
	}

	got = provider.Cell(op(11, 5))
	if !got.IsUnknown() {
		t.Fatalf("out-of-range output index resolved to %v, want Unknown", got.Kind)
	}
}

// TestBlockProviderIntraBlockDoubleSpend checks that an outpoint
// referenced twice across inputs of a block resolves Dead under the block
// provider for both references, while an ordinary single reference falls
// through (Unknown) so a lower view can still report it Live.
func TestBlockProviderIntraBlockDoubleSpend(t *testing.T) {
	shared := op(99, 0)
	tx1 := cell.Transaction{Hash: mustHash(1), Inputs: []cell.OutPoint{shared}}
	tx2 := cell.Transaction{Hash: mustHash(2), Inputs: []cell.OutPoint{shared}}
	block := &cell.Block{
		Header:       cell.Header{Number: 1},
		Transactions: []cell.Transaction{{Hash: mustHash(0)}, tx1, tx2},
	}
	provider := NewBlockProvider(block)

	got := provider.Cell(shared)
	if !got.IsDead() {
		t.Fatalf("outpoint referenced twice resolved to %v, want Dead", got.Kind)
	}

	singleSpendBlock := &cell.Block{
		Header:       cell.Header{Number: 1},
		Transactions: []cell.Transaction{{Hash: mustHash(0)}, tx1},
	}
	got = NewBlockProvider(singleSpendBlock).Cell(shared)
	if !got.IsUnknown() {
		t.Fatalf("ordinary single spend resolved to %v, want Unknown (no local opinion)", got.Kind)
	}
}

func TestTransactionProviderDetectsSelfDoubleSpend(t *testing.T) {
	shared := op(5, 0)
	tx := &cell.Transaction{Inputs: []cell.OutPoint{shared, shared, op(6, 0)}}
	provider := NewTransactionProvider(tx)

	if got := provider.Cell(shared); !got.IsDead() {
		t.Fatalf("self double-spent outpoint resolved to %v, want Dead", got.Kind)
	}
	if got := provider.Cell(op(6, 0)); !got.IsUnknown() {
		t.Fatalf("singly-referenced outpoint resolved to %v, want Unknown", got.Kind)
	}
}
