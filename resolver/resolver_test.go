package resolver

import (
	"testing"

	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/cellprovider"
)

func hash(b byte) cell.Hash {
	var h cell.Hash
	h[0] = b
	return h
}

// TestResolveLength checks that InputCells is empty for a cellbase, else
// equal in length to the input count, and that DepCells always equals the
// dep count.
func TestResolveLength(t *testing.T) {
	always := cellprovider.ProviderFunc(func(cell.OutPoint) cell.Status { return cell.UnknownStatus })

	cellbase := cell.Transaction{Inputs: []cell.OutPoint{cell.NullOutPoint}}
	rt := Resolve(cellbase, always)
	if len(rt.InputCells) != 0 {
		t.Fatalf("cellbase InputCells len = %d, want 0", len(rt.InputCells))
	}

	normal := cell.Transaction{
		Inputs:   []cell.OutPoint{{TxHash: hash(1), Index: 0}, {TxHash: hash(2), Index: 0}},
		DepCells: []cell.OutPoint{{TxHash: hash(3), Index: 0}},
	}
	rt = Resolve(normal, always)
	if len(rt.InputCells) != len(normal.Inputs) {
		t.Fatalf("InputCells len = %d, want %d", len(rt.InputCells), len(normal.Inputs))
	}
	if len(rt.DepCells) != len(normal.DepCells) {
		t.Fatalf("DepCells len = %d, want %d", len(rt.DepCells), len(normal.DepCells))
	}
}

// TestResolvePositional checks that input statuses are looked up in
// declared order and are positionally addressable.
func TestResolvePositional(t *testing.T) {
	liveAt := map[cell.OutPoint]cell.Status{
		{TxHash: hash(1), Index: 0}: cell.LiveStatus(&cell.CellMeta{CellOutput: cell.CellOutput{Capacity: 10}}),
		{TxHash: hash(2), Index: 0}: cell.DeadStatus,
	}
	provider := cellprovider.ProviderFunc(func(o cell.OutPoint) cell.Status {
		if s, ok := liveAt[o]; ok {
			return s
		}
		return cell.UnknownStatus
	})

	tx := cell.Transaction{
		Inputs: []cell.OutPoint{
			{TxHash: hash(1), Index: 0},
			{TxHash: hash(2), Index: 0},
			{TxHash: hash(3), Index: 0},
		},
	}
	rt := Resolve(tx, provider)
	if !rt.InputCells[0].IsLive() {
		t.Fatalf("InputCells[0] = %v, want Live", rt.InputCells[0].Kind)
	}
	if !rt.InputCells[1].IsDead() {
		t.Fatalf("InputCells[1] = %v, want Dead", rt.InputCells[1].Kind)
	}
	if !rt.InputCells[2].IsUnknown() {
		t.Fatalf("InputCells[2] = %v, want Unknown", rt.InputCells[2].Kind)
	}
}

// TestResolveDoesNotPruneSpentDeps checks that a dep already spent is still
// reported, not pruned: the resolver only reports status.
func TestResolveDoesNotPruneSpentDeps(t *testing.T) {
	provider := cellprovider.ProviderFunc(func(cell.OutPoint) cell.Status { return cell.DeadStatus })
	tx := cell.Transaction{DepCells: []cell.OutPoint{{TxHash: hash(9), Index: 0}}}
	rt := Resolve(tx, provider)
	if len(rt.DepCells) != 1 || !rt.DepCells[0].IsDead() {
		t.Fatalf("DepCells = %v, want a single Dead entry", rt.DepCells)
	}
}
