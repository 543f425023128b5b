// Package cellprovider implements the cell provider capability: a total,
// side-effect-free mapping from an outpoint to a cell.Status, and the
// overlay composition law that lets concrete views stack.
package cellprovider

import (
	"github.com/ckblabs/ckb-chainstate/cell"
	"github.com/ckblabs/ckb-chainstate/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.PROV)

// Provider is the single-operation capability every concrete view
// implements: Cell must be deterministic for a fixed view, and MAY cache
// but MUST NOT mutate observable cell state.
type Provider interface {
	Cell(outPoint cell.OutPoint) cell.Status
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(outPoint cell.OutPoint) cell.Status

// Cell implements Provider.
func (f ProviderFunc) Cell(outPoint cell.OutPoint) cell.Status {
	return f(outPoint)
}

// overlay stacks a top provider over a bottom one, authoritative whenever
// the top has an opinion and transparent only on Unknown. This is the
// central composition rule: a Live cell in the bottom provider shadowed
// Dead in the top resolves Dead, and a cell freshly minted in the top
// (e.g. by an earlier transaction in the same block) resolves Live even
// though the bottom knows nothing about it.
type overlay struct {
	top    Provider
	bottom Provider
}

// Overlay composes top over bottom: top.Cell(o) wins whenever it is not
// Unknown, otherwise bottom.Cell(o) is returned unchanged. This mirrors
// blockdag's DiffUTXOSet stacking over a FullUTXOSet, restated as a pure
// two-provider algebra instead of a diff object.
func Overlay(top, bottom Provider) Provider {
	return &overlay{top: top, bottom: bottom}
}

func (o *overlay) Cell(outPoint cell.OutPoint) cell.Status {
	status := o.top.Cell(outPoint)
	if !status.IsUnknown() {
		return status
	}
	return o.bottom.Cell(outPoint)
}

// Chain folds providers left-to-right with the same overlay rule, so that
// providers[0] shadows providers[1] which shadows providers[2], and so on.
// This is a convenience over nesting binary Overlay calls by hand, grounded
// on original_source/rpc/src/module/pool.rs's call site, which stacks three
// providers (pending pool overlay, proposed pool overlay, the confirmed
// chain) to resolve a submitted transaction. Chain panics if called with no
// providers — callers always have at least a base store view.
func Chain(providers ...Provider) Provider {
	if len(providers) == 0 {
		panic("cellprovider: Chain called with no providers")
	}
	result := providers[len(providers)-1]
	for i := len(providers) - 2; i >= 0; i-- {
		result = Overlay(providers[i], result)
	}
	return result
}
