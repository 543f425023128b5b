package cell

// StatusKind is the tag of a CellStatus three-way sum. It is deliberately
// not a nested Option<Option<_>>: Dead and Unknown are distinct and must
// remain so, or overlay composition breaks.
type StatusKind int

const (
	// Unknown means this view has no evidence of the outpoint.
	Unknown StatusKind = iota
	// Live means the output exists and is currently unspent under this view.
	Live
	// Dead means the output exists (or would exist) but has already been
	// consumed under this view, including consumption by a sibling input
	// within the same block or transaction.
	Dead
)

func (k StatusKind) String() string {
	switch k {
	case Live:
		return "Live"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Status is a CellStatus value: Kind discriminates the case, and Meta is
// populated only when Kind == Live.
type Status struct {
	Kind StatusKind
	Meta *CellMeta
}

// UnknownStatus is the Unknown case.
var UnknownStatus = Status{Kind: Unknown}

// DeadStatus is the Dead case.
var DeadStatus = Status{Kind: Dead}

// LiveStatus builds the Live case around the given metadata.
func LiveStatus(meta *CellMeta) Status {
	return Status{Kind: Live, Meta: meta}
}

// LiveOutput constructs a Live status directly from output/metadata
// fields, mirroring CellStatus::live_output in the original cell model.
func LiveOutput(output CellOutput, blockNumber *uint64, cellbase bool, outPoint *OutPoint) Status {
	return LiveStatus(&CellMeta{
		CellOutput:  output,
		BlockNumber: blockNumber,
		Cellbase:    cellbase,
		OutPoint:    outPoint,
	})
}

// IsLive reports whether s is the Live case.
func (s Status) IsLive() bool { return s.Kind == Live }

// IsDead reports whether s is the Dead case.
func (s Status) IsDead() bool { return s.Kind == Dead }

// IsUnknown reports whether s is the Unknown case.
func (s Status) IsUnknown() bool { return s.Kind == Unknown }

// LiveOutputValue returns the enveloped CellOutput when s is Live, else nil.
func (s Status) LiveOutputValue() *CellOutput {
	if s.Kind != Live || s.Meta == nil {
		return nil
	}
	return &s.Meta.CellOutput
}
