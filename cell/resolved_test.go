package cell

import "testing"

func liveInput(capacity uint64) Status {
	return LiveOutput(CellOutput{Capacity: capacity}, nil, false, nil)
}

// TestFee checks inputs 10 / outputs 7 -> fee 3, inputs 5 / outputs 7 ->
// fee 0, and equal inputs and outputs -> fee 0.
func TestFee(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []uint64
		outputs  []uint64
		wantFee  uint64
		wantFail bool
	}{
		{name: "positive fee", inputs: []uint64{10}, outputs: []uint64{7}, wantFee: 3},
		{name: "zero fee when outputs exceed inputs", inputs: []uint64{5}, outputs: []uint64{7}, wantFee: 0},
		{name: "equal inputs and outputs", inputs: []uint64{7}, outputs: []uint64{7}, wantFee: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &ResolvedTransaction{}
			for _, c := range tt.inputs {
				rt.InputCells = append(rt.InputCells, liveInput(c))
			}
			outputs := make([]CellOutput, len(tt.outputs))
			for i, c := range tt.outputs {
				outputs[i] = CellOutput{Capacity: c}
			}
			rt.Transaction = Transaction{Outputs: outputs}

			got, err := rt.Fee()
			if err != nil {
				t.Fatalf("Fee() returned error: %v", err)
			}
			if got != tt.wantFee {
				t.Fatalf("Fee() = %d, want %d", got, tt.wantFee)
			}
		})
	}
}

func TestFeeOverflow(t *testing.T) {
	rt := &ResolvedTransaction{
		InputCells: []Status{
			liveInput(MaxCapacity),
			liveInput(1),
		},
	}
	_, err := rt.Fee()
	if err == nil {
		t.Fatal("expected ArithmeticOverflow, got nil")
	}
}

// TestInputsCapacityIgnoresNonLive checks that Dead/Unknown inputs
// contribute zero and are not an error at this layer.
func TestInputsCapacityIgnoresNonLive(t *testing.T) {
	rt := &ResolvedTransaction{
		InputCells: []Status{
			liveInput(10),
			DeadStatus,
			UnknownStatus,
		},
	}
	got, err := rt.InputsCapacity()
	if err != nil {
		t.Fatalf("InputsCapacity() returned error: %v", err)
	}
	if got != 10 {
		t.Fatalf("InputsCapacity() = %d, want 10", got)
	}
}

func TestIsCellbaseDerivedFromInputCells(t *testing.T) {
	rt := &ResolvedTransaction{}
	if !rt.IsCellbase() {
		t.Fatal("ResolvedTransaction with no input cells should be cellbase")
	}
	rt.InputCells = []Status{liveInput(1)}
	if rt.IsCellbase() {
		t.Fatal("ResolvedTransaction with input cells should not be cellbase")
	}
}

func TestDeadAndUnknownInputIndices(t *testing.T) {
	rt := &ResolvedTransaction{
		InputCells: []Status{liveInput(1), DeadStatus, UnknownStatus, DeadStatus},
	}
	dead := rt.DeadInputIndices()
	if len(dead) != 2 || dead[0] != 1 || dead[1] != 3 {
		t.Fatalf("DeadInputIndices() = %v, want [1 3]", dead)
	}
	unknown := rt.UnknownInputIndices()
	if len(unknown) != 1 || unknown[0] != 2 {
		t.Fatalf("UnknownInputIndices() = %v, want [2]", unknown)
	}
}

func TestTransactionIsCellbase(t *testing.T) {
	cellbaseTx := Transaction{Inputs: []OutPoint{NullOutPoint}}
	if !cellbaseTx.IsCellbase() {
		t.Fatal("transaction with the null outpoint input should be a cellbase")
	}

	normalTx := Transaction{Inputs: []OutPoint{{TxHash: Hash{1}, Index: 0}}}
	if normalTx.IsCellbase() {
		t.Fatal("transaction with a real outpoint input should not be a cellbase")
	}
}

func TestOutPointIsNull(t *testing.T) {
	if !NullOutPoint.IsNull() {
		t.Fatal("NullOutPoint.IsNull() should be true")
	}
	real := OutPoint{TxHash: Hash{1}, Index: 0}
	if real.IsNull() {
		t.Fatal("a real outpoint should not report IsNull")
	}
}

func TestSumOutputsCapacityOverflow(t *testing.T) {
	_, err := SumOutputsCapacity([]CellOutput{{Capacity: MaxCapacity}, {Capacity: 1}})
	if err == nil {
		t.Fatal("expected ArithmeticOverflow summing outputs past MaxCapacity")
	}
}

func TestSafeSubCapacityUnderflow(t *testing.T) {
	_, err := SafeSubCapacity(5, 10)
	if err == nil {
		t.Fatal("expected ArithmeticOverflow from SafeSubCapacity(5, 10)")
	}
}
