package compat

// foldLess and foldEqual mirror the schema package's ASCII-only,
// locale-independent case fold (§9): ordinal lowercase comparison, never
// Unicode casefolding, so ordering here agrees with the ordering the schema
// package used to sort fields and members.
func foldLess(a, b string) bool { return foldKey(a) < foldKey(b) }

func foldEqual(a, b string) bool { return foldKey(a) == foldKey(b) }

func foldKey(s string) string {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	return string(buf)
}
