package schema

// Equal reports whether a and b are structurally equal, recursing through
// by-reference schemas rather than comparing their identifiers, so schemas
// built in different Collections (e.g. across a CopyTo) still compare
// equal when their shapes match (§3.5).
//
// Cyclic schema graphs terminate via the same bisimulation technique the
// compatibility engine uses (§4.6): a pair of by-reference nodes already
// under comparison is optimistically assumed equal on re-entry.
func Equal(a, b Schema) bool {
	return newEqualer().equal(a, b)
}

type pair struct{ a, b Schema }

type equaler struct{ seen map[pair]bool }

func newEqualer() *equaler { return &equaler{seen: map[pair]bool{}} }

func (e *equaler) equal(a, b Schema) bool {
	switch av := a.(type) {
	case *Primitive:
		bv, ok := b.(*Primitive)
		return ok && av.Kind == bv.Kind
	case *Nullable:
		bv, ok := b.(*Nullable)
		return ok && e.equal(av.Elem, bv.Elem)
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !e.equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Sequence:
		bv, ok := b.(*Sequence)
		return ok && e.equal(av.Elem, bv.Elem)
	case *Mapping:
		bv, ok := b.(*Mapping)
		return ok && e.equal(av.Key, bv.Key) && e.equal(av.Value, bv.Value)
	case *Empty:
		_, ok := b.(*Empty)
		return ok
	case *Complex:
		bv, ok := b.(*Complex)
		if !ok {
			return false
		}
		p := pair{a, b}
		if seen, ok := e.seen[p]; ok {
			return seen
		}
		e.seen[p] = true
		if len(av.Fields) != len(bv.Fields) {
			e.seen[p] = false
			return false
		}
		for i := range av.Fields {
			fa, fb := av.Fields[i], bv.Fields[i]
			if !foldEqual(fa.Name, fb.Name) || fa.HasDefault != fb.HasDefault || !e.equal(fa.Schema, fb.Schema) {
				e.seen[p] = false
				return false
			}
		}
		return true
	case *Union:
		bv, ok := b.(*Union)
		if !ok {
			return false
		}
		p := pair{a, b}
		if seen, ok := e.seen[p]; ok {
			return seen
		}
		e.seen[p] = true
		if len(av.Members) != len(bv.Members) {
			e.seen[p] = false
			return false
		}
		for i := range av.Members {
			ma, mb := av.Members[i], bv.Members[i]
			if !foldEqual(ma.Name, mb.Name) || !e.equal(ma.Schema, mb.Schema) {
				e.seen[p] = false
				return false
			}
		}
		return true
	case *Enum:
		bv, ok := b.(*Enum)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !foldEqual(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
