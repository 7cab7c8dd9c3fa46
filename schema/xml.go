package schema

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/drewnoakes/msgpack-strict/errs"
)

// EncodeXML writes s's canonical XML form to w (§6.3): one element per
// variant, with by-reference nodes (Complex, Union, Enum) carrying an Id
// attribute the first time they are written and a bare Contract="#id"
// reference on every subsequent occurrence, so cyclic graphs serialize as
// finite documents.
func EncodeXML(w io.Writer, s Schema) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	e := &xmlEncoder{enc: enc, written: map[Schema]bool{}}
	if err := e.encode(s); err != nil {
		return err
	}
	return enc.Flush()
}

type xmlEncoder struct {
	enc     *xml.Encoder
	written map[Schema]bool
}

func (e *xmlEncoder) encode(s Schema) error {
	switch v := s.(type) {
	case *Primitive:
		return e.leaf("Primitive", xml.Attr{Name: xml.Name{Local: "Kind"}, Value: v.Kind.String()})
	case *Empty:
		return e.leaf("Empty")
	case *Nullable:
		return e.wrap("Nullable", v.Elem)
	case *Sequence:
		return e.wrap("List", v.Elem)
	case *Mapping:
		start := xml.StartElement{Name: xml.Name{Local: "Dictionary"}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err
		}
		if err := e.wrap("Key", v.Key); err != nil {
			return err
		}
		if err := e.wrap("Value", v.Value); err != nil {
			return err
		}
		return e.enc.EncodeToken(start.End())
	case *Tuple:
		start := xml.StartElement{Name: xml.Name{Local: "Tuple"}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err
		}
		for _, el := range v.Elems {
			if err := e.wrap("Elem", el); err != nil {
				return err
			}
		}
		return e.enc.EncodeToken(start.End())
	case *Complex:
		if ref, ok := e.reference("Complex", s, v.id); ok {
			return ref
		}
		start := xml.StartElement{Name: xml.Name{Local: "Complex"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: string(v.id)},
			{Name: xml.Name{Local: "Name"}, Value: v.Name},
		}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err
		}
		for _, f := range v.Fields {
			attrs := []xml.Attr{{Name: xml.Name{Local: "Name"}, Value: f.Name}}
			if f.HasDefault {
				attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "Default"}, Value: "true"})
			}
			fs := xml.StartElement{Name: xml.Name{Local: "Field"}, Attr: attrs}
			if err := e.enc.EncodeToken(fs); err != nil {
				return err
			}
			if err := e.encode(f.Schema); err != nil {
				return err
			}
			if err := e.enc.EncodeToken(fs.End()); err != nil {
				return err
			}
		}
		return e.enc.EncodeToken(start.End())
	case *Union:
		if ref, ok := e.reference("Union", s, v.id); ok {
			return ref
		}
		start := xml.StartElement{Name: xml.Name{Local: "Union"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: string(v.id)},
			{Name: xml.Name{Local: "Name"}, Value: v.Name},
		}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err
		}
		for _, m := range v.Members {
			ms := xml.StartElement{Name: xml.Name{Local: "Member"}, Attr: []xml.Attr{
				{Name: xml.Name{Local: "Name"}, Value: m.Name},
			}}
			if err := e.enc.EncodeToken(ms); err != nil {
				return err
			}
			if err := e.encode(m.Schema); err != nil {
				return err
			}
			if err := e.enc.EncodeToken(ms.End()); err != nil {
				return err
			}
		}
		return e.enc.EncodeToken(start.End())
	case *Enum:
		if ref, ok := e.reference("Enum", s, v.id); ok {
			return ref
		}
		start := xml.StartElement{Name: xml.Name{Local: "Enum"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: string(v.id)},
			{Name: xml.Name{Local: "Name"}, Value: v.Name},
		}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err
		}
		for _, m := range v.Members {
			ms := xml.StartElement{Name: xml.Name{Local: "Member"}, Attr: []xml.Attr{
				{Name: xml.Name{Local: "Name"}, Value: m},
			}}
			if err := e.enc.EncodeToken(ms); err != nil {
				return err
			}
			if err := e.enc.EncodeToken(ms.End()); err != nil {
				return err
			}
		}
		return e.enc.EncodeToken(start.End())
	default:
		return errs.New(errs.SchemaInvariantViolation, "", "unknown schema variant %T", s)
	}
}

// reference emits a "Contract=#id" shorthand for a by-reference node already
// written earlier in this document, and records first-time visits.
func (e *xmlEncoder) reference(name string, s Schema, id ID) (error, bool) {
	if e.written[s] {
		start := xml.StartElement{Name: xml.Name{Local: name}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "Contract"}, Value: "#" + string(id)},
		}}
		if err := e.enc.EncodeToken(start); err != nil {
			return err, true
		}
		return e.enc.EncodeToken(start.End()), true
	}
	e.written[s] = true
	return nil, false
}

func (e *xmlEncoder) leaf(name string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	return e.enc.EncodeToken(start.End())
}

func (e *xmlEncoder) wrap(name string, inner Schema) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	if err := e.encode(inner); err != nil {
		return err
	}
	return e.enc.EncodeToken(start.End())
}

// node is the generic parse tree encoding/xml decodes any variant element
// into, before the two-phase bind pass resolves it into a real Schema.
type node struct {
	XMLName  xml.Name
	Id       string `xml:"Id,attr"`
	Name     string `xml:"Name,attr"`
	Kind     string `xml:"Kind,attr"`
	Contract string `xml:"Contract,attr"`
	Default  string `xml:"Default,attr"`
	Children []node `xml:",any"`
}

// DecodeXML reads a schema previously written by EncodeXML. It uses a
// deferred bind list (§4.1): every by-reference node is allocated first
// (keyed by its Id), then a second pass fills in field and member content
// and resolves Contract="#id" references, so forward references within the
// document — a node referencing a sibling declared later — resolve
// correctly.
func DecodeXML(r io.Reader) (Schema, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errs.Wrap(errs.SchemaInvariantViolation, "", err, "decode schema xml")
	}
	b := &binder{refs: map[string]Schema{}}
	b.allocate(&root)
	return b.fill(&root)
}

type binder struct {
	refs map[string]Schema
}

// allocate walks the parse tree and, for every by-reference element, stores
// an empty placeholder keyed by its Id so later Contract references -
// forward or backward - resolve to a live pointer.
func (b *binder) allocate(n *node) {
	switch n.XMLName.Local {
	case "Complex":
		if n.Id != "" {
			b.refs[n.Id] = &Complex{id: ID(n.Id), Name: n.Name}
		}
	case "Union":
		if n.Id != "" {
			b.refs[n.Id] = &Union{id: ID(n.Id), Name: n.Name}
		}
	case "Enum":
		if n.Id != "" {
			b.refs[n.Id] = &Enum{id: ID(n.Id), Name: n.Name}
		}
	}
	for i := range n.Children {
		b.allocate(&n.Children[i])
	}
}

func (b *binder) fill(n *node) (Schema, error) {
	if n.Contract != "" {
		id := n.Contract[1:] // strip leading '#'
		s, ok := b.refs[id]
		if !ok {
			return nil, errs.New(errs.SchemaInvariantViolation, "", "unresolved schema reference %q", n.Contract)
		}
		return s, nil
	}
	switch n.XMLName.Local {
	case "Primitive":
		k, ok := ParseKind(n.Kind)
		if !ok {
			return nil, errs.New(errs.SchemaInvariantViolation, "", "unknown primitive kind %q", n.Kind)
		}
		return &Primitive{Kind: k}, nil
	case "Empty":
		return &Empty{}, nil
	case "Nullable":
		inner, err := b.fillOnly(n)
		if err != nil {
			return nil, err
		}
		return &Nullable{Elem: inner}, nil
	case "List":
		inner, err := b.fillOnly(n)
		if err != nil {
			return nil, err
		}
		return &Sequence{Elem: inner}, nil
	case "Tuple":
		elems := make([]Schema, 0, len(n.Children))
		for i := range n.Children {
			s, err := b.fill(&n.Children[i])
			if err != nil {
				return nil, err
			}
			elems = append(elems, s)
		}
		return &Tuple{Elems: elems}, nil
	case "Dictionary":
		var key, val Schema
		for i := range n.Children {
			c := &n.Children[i]
			s, err := b.fillOnly(c)
			if err != nil {
				return nil, err
			}
			switch c.XMLName.Local {
			case "Key":
				key = s
			case "Value":
				val = s
			}
		}
		return &Mapping{Key: key, Value: val}, nil
	case "Complex":
		out := b.refs[n.Id].(*Complex)
		fields := make([]Field, 0, len(n.Children))
		for i := range n.Children {
			c := &n.Children[i]
			s, err := b.fillOnly(c)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: c.Name, Schema: s, HasDefault: c.Default == "true"})
		}
		sort.SliceStable(fields, func(i, j int) bool { return foldLess(fields[i].Name, fields[j].Name) })
		out.Fields = fields
		return out, nil
	case "Union":
		out := b.refs[n.Id].(*Union)
		members := make([]Member, 0, len(n.Children))
		for i := range n.Children {
			c := &n.Children[i]
			s, err := b.fillOnly(c)
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Name: c.Name, Schema: s})
		}
		sort.SliceStable(members, func(i, j int) bool { return foldLess(members[i].Name, members[j].Name) })
		out.Members = members
		return out, nil
	case "Enum":
		out := b.refs[n.Id].(*Enum)
		members := make([]string, 0, len(n.Children))
		for i := range n.Children {
			members = append(members, n.Children[i].Name)
		}
		sort.SliceStable(members, func(i, j int) bool { return foldLess(members[i], members[j]) })
		out.Members = members
		return out, nil
	default:
		return nil, errs.New(errs.SchemaInvariantViolation, "", "unknown schema element %q", n.XMLName.Local)
	}
}

// fillOnly resolves the single wrapped child of a Field/Member/Key/Value/
// Nullable/List element (or, for Complex/Union/Enum bodies read via
// Contract, itself).
func (b *binder) fillOnly(n *node) (Schema, error) {
	if n.Contract != "" {
		return b.fill(n)
	}
	if len(n.Children) != 1 {
		return nil, errs.New(errs.SchemaInvariantViolation, "", "expected exactly one child under %q, got %d", n.XMLName.Local, len(n.Children))
	}
	return b.fill(&n.Children[0])
}
