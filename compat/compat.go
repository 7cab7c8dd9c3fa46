// Package compat implements the compatibility engine (CE): the structural
// traversal that decides whether a value produced under a write schema can
// be safely consumed by a reader expecting a read schema (§4.6).
package compat

import (
	"github.com/drewnoakes/msgpack-strict/schema"
)

// CanReadFrom reports whether a reader expecting readSchema can safely
// consume a value written under writeSchema. strict disables widening,
// default-tolerance and enum/union extra-member tolerance (§4.6).
func CanReadFrom(readSchema, writeSchema schema.Schema, strict bool) bool {
	return newChecker(strict).check(readSchema, writeSchema)
}

// key memoizes a (read, write) pair under one strictness mode; separate
// checkers are used for strict and relaxed calls so a cached relaxed result
// never leaks into a strict query.
type key struct{ read, write schema.Schema }

// checker carries the memo table used to terminate on cyclic schema graphs
// (§4.6): a pair already under comparison is optimistically assumed
// compatible on re-entry, then corrected if the recursive comparison finds
// otherwise (standard bisimulation technique).
type checker struct {
	strict bool
	memo   map[key]bool
}

func newChecker(strict bool) *checker {
	return &checker{strict: strict, memo: map[key]bool{}}
}

func (c *checker) check(read, write schema.Schema) bool {
	// Empty read accepts any write schema in relaxed mode (§4.6, §8 scenario
	// 7); in strict mode it accepts only an Empty write (§9 open question:
	// reflexivity dominates for Empty<-Empty, but a strict Empty reader
	// still can't be shown to accept an arbitrary writer's content).
	if _, ok := read.(*schema.Empty); ok {
		if c.strict {
			_, writeIsEmpty := write.(*schema.Empty)
			return writeIsEmpty
		}
		return true
	}

	switch r := read.(type) {
	case *schema.Primitive:
		w, ok := write.(*schema.Primitive)
		if !ok {
			return false
		}
		if r.Kind == w.Kind {
			return true
		}
		if c.strict {
			return false
		}
		return schema.CanWiden(w.Kind, r.Kind)

	case *schema.Nullable:
		w, ok := write.(*schema.Nullable)
		if ok {
			return c.check(r.Elem, w.Elem)
		}
		// A non-nullable writer always supplies a value, so it can feed a
		// nullable reader; recurse against the writer schema directly.
		return c.check(r.Elem, write)

	case *schema.Sequence:
		w, ok := write.(*schema.Sequence)
		return ok && c.check(r.Elem, w.Elem)

	case *schema.Mapping:
		w, ok := write.(*schema.Mapping)
		return ok && c.check(r.Key, w.Key) && c.check(r.Value, w.Value)

	case *schema.Tuple:
		w, ok := write.(*schema.Tuple)
		if !ok || len(r.Elems) != len(w.Elems) {
			return false
		}
		for i := range r.Elems {
			if !c.check(r.Elems[i], w.Elems[i]) {
				return false
			}
		}
		return true

	case *schema.Enum:
		w, ok := write.(*schema.Enum)
		if !ok {
			return false
		}
		if c.strict {
			return sameEnumMembers(r.Members, w.Members)
		}
		return isSupersetFold(r.Members, w.Members)

	case *schema.Complex:
		w, ok := write.(*schema.Complex)
		if !ok {
			return false
		}
		return c.checkMemo(key{r, w}, func() bool { return c.checkComplex(r, w) })

	case *schema.Union:
		w, ok := write.(*schema.Union)
		if !ok {
			return false
		}
		return c.checkMemo(key{r, w}, func() bool { return c.checkUnion(r, w) })

	case *schema.Empty:
		_, ok := write.(*schema.Empty)
		return ok

	default:
		return false
	}
}

// checkMemo runs f under cycle protection: on first entry for k it
// optimistically records true, runs f, then stores and returns f's actual
// result. Re-entrant calls for the same k (a schema cycle) observe the
// optimistic true and let outer, non-cyclic constraints decide the outcome.
func (c *checker) checkMemo(k key, f func() bool) bool {
	if v, ok := c.memo[k]; ok {
		return v
	}
	c.memo[k] = true
	result := f()
	c.memo[k] = result
	return result
}

// checkComplex merge-walks two case-insensitive lexicographically sorted
// field lists (§4.6 Complex -> Complex).
func (c *checker) checkComplex(r, w *schema.Complex) bool {
	ri, wi := 0, 0
	for ri < len(r.Fields) && wi < len(w.Fields) {
		rf, wf := r.Fields[ri], w.Fields[wi]
		switch {
		case foldEqual(rf.Name, wf.Name):
			if !c.check(rf.Schema, wf.Schema) {
				return false
			}
			ri++
			wi++
		case foldLess(wf.Name, rf.Name):
			// writer has a field the reader lacks
			if c.strict {
				return false
			}
			wi++
		default:
			// reader has a field the writer lacks
			if c.strict || !rf.HasDefault {
				return false
			}
			ri++
		}
	}
	if wi < len(w.Fields) && c.strict {
		// leftover writer fields with no matching reader field
		return false
	}
	for ; ri < len(r.Fields); ri++ {
		if c.strict || !r.Fields[ri].HasDefault {
			return false
		}
	}
	return true
}

// checkUnion merge-walks two case-insensitive lexicographically sorted
// member lists (§4.6 Union -> Union). Unlike Complex, a writer member the
// reader lacks fails in both modes: the reader could not dispatch it.
func (c *checker) checkUnion(r, w *schema.Union) bool {
	ri, wi := 0, 0
	for ri < len(r.Members) && wi < len(w.Members) {
		rm, wm := r.Members[ri], w.Members[wi]
		switch {
		case foldEqual(rm.Name, wm.Name):
			if !c.check(rm.Schema, wm.Schema) {
				return false
			}
			ri++
			wi++
		case foldLess(wm.Name, rm.Name):
			// writer has a member the reader cannot dispatch
			return false
		default:
			// reader has a member the writer never sends
			if c.strict {
				return false
			}
			ri++
		}
	}
	if wi < len(w.Members) {
		return false
	}
	if c.strict && ri < len(r.Members) {
		return false
	}
	return true
}

func sameEnumMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !foldEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// isSupersetFold reports whether every member of sub appears in super. Both
// slices are case-insensitively sorted, so this is a linear merge.
func isSupersetFold(super, sub []string) bool {
	si := 0
	for _, s := range sub {
		for si < len(super) && foldLess(super[si], s) {
			si++
		}
		if si >= len(super) || !foldEqual(super[si], s) {
			return false
		}
	}
	return true
}
