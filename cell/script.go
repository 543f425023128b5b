package cell

// Script names the code that governs spendability (the lock) or
// creation/burn (the type) of a cell. Script interpretation itself is out
// of scope for this core; the script is carried opaquely.
type Script struct {
	CodeHash Hash
	HashType byte
	Args     []byte
}

// Equal reports whether two scripts carry the same code hash, hash type
// and args.
func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.CodeHash != other.CodeHash || s.HashType != other.HashType {
		return false
	}
	if len(s.Args) != len(other.Args) {
		return false
	}
	for i, b := range s.Args {
		if other.Args[i] != b {
			return false
		}
	}
	return true
}
