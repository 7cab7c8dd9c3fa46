package schema

import (
	"encoding/xml"
	"io"

	"github.com/drewnoakes/msgpack-strict/errs"
)

// ToXML writes every schema currently held in the collection as one
// <Schemas> document (§4.1, §6.3), one <Root Name="..." Write="true|false">
// element per (type, write/read) entry. By-reference nodes shared across
// multiple roots are written once and referenced thereafter, using the same
// Id numbering the collection assigned during derivation.
func (c *Collection) ToXML(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	start := xml.StartElement{Name: xml.Name{Local: "Schemas"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	xe := &xmlEncoder{enc: enc, written: map[Schema]bool{}}
	for key, s := range c.entries {
		rs := xml.StartElement{Name: xml.Name{Local: "Root"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "Name"}, Value: key.t.String()},
			{Name: xml.Name{Local: "Write"}, Value: boolAttr(key.write)},
		}}
		if err := enc.EncodeToken(rs); err != nil {
			return err
		}
		if err := xe.encode(s); err != nil {
			return err
		}
		if err := enc.EncodeToken(rs.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RootXML is one named schema recovered from a collection's XML form. Type
// is the writer's original reflect.Type.String() label, kept only for
// diagnostics: FromXML rebuilds schema graphs, not Go types.
type RootXML struct {
	Type   string
	Write  bool
	Schema Schema
}

// FromXMLRoots reads a document written by (*Collection).ToXML, returning
// every root schema it contains.
func FromXMLRoots(r io.Reader) ([]RootXML, error) {
	var doc struct {
		Roots []struct {
			Name  string `xml:"Name,attr"`
			Write string `xml:"Write,attr"`
			Nodes []node `xml:",any"`
		} `xml:"Root"`
	}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.SchemaInvariantViolation, "", err, "decode schema collection xml")
	}
	b := &binder{refs: map[string]Schema{}}
	for i := range doc.Roots {
		for j := range doc.Roots[i].Nodes {
			b.allocate(&doc.Roots[i].Nodes[j])
		}
	}
	out := make([]RootXML, 0, len(doc.Roots))
	for _, root := range doc.Roots {
		if len(root.Nodes) != 1 {
			return nil, errs.New(errs.SchemaInvariantViolation, root.Name, "expected exactly one schema under Root, got %d", len(root.Nodes))
		}
		s, err := b.fill(&root.Nodes[0])
		if err != nil {
			return nil, err
		}
		out = append(out, RootXML{Type: root.Name, Write: root.Write == "true", Schema: s})
	}
	return out, nil
}
