// Package tagfile renders an aggregated catalog as a Doxygen tag file.
package tagfile

import (
	"encoding/xml"
	"io"

	"github.com/phobologic/doxytags/internal/aggregate"
	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/graph"
	"github.com/phobologic/doxytags/internal/model"
	"github.com/phobologic/doxytags/internal/names"
	"github.com/phobologic/doxytags/internal/progress"
)

// Header is the XML declaration every tag file starts with.
const Header = `<?xml version="1.0" standalone="yes"?>`

// Encoder writes tag files to an underlying writer. The first write error is
// kept and every later write becomes a no-op.
type Encoder struct {
	w        io.Writer
	xml      *xml.Encoder
	view     string
	reporter progress.Reporter
	err      error
}

// NewEncoder returns an encoder writing to w. view is the documentation view
// token appended to every file reference; r may be nil.
func NewEncoder(w io.Writer, view string, r progress.Reporter) *Encoder {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Encoder{w: w, xml: enc, view: view, reporter: r}
}

// Encode writes the complete document for cat. Errors are marked
// errors.ErrOutputSink.
func (e *Encoder) Encode(cat *model.Catalog) error {
	if cat == nil {
		return errors.InvalidArgumentf("nil catalog")
	}
	tracker := progress.NewTracker(cat.TypeCount(), e.reporter)

	if _, err := io.WriteString(e.w, Header+"\n"); err != nil {
		return errors.OutputSink(err, "writing tag file header")
	}

	e.start("tagfile")
	for i := range cat.Namespaces {
		ns := &cat.Namespaces[i]
		e.namespace(ns, tracker)
		for _, t := range ns.Interfaces() {
			e.compound(t)
			tracker.Step()
		}
		for _, t := range ns.Structs() {
			e.compound(t)
			tracker.Step()
		}
		for _, t := range ns.Classes() {
			e.compound(t)
			tracker.Step()
		}
	}
	e.end("tagfile")

	if e.err == nil {
		e.err = e.xml.Flush()
	}
	if e.err == nil {
		_, e.err = io.WriteString(e.w, "\n")
	}
	if e.err != nil {
		return errors.OutputSink(e.err, "writing tag file")
	}
	tracker.Complete()
	return nil
}

// Encode is a convenience wrapper around NewEncoder(w, view, r).Encode(cat).
func Encode(w io.Writer, cat *model.Catalog, view string, r progress.Reporter) error {
	return NewEncoder(w, view, r).Encode(cat)
}

func (e *Encoder) namespace(ns *model.Namespace, tracker *progress.Tracker) {
	file := names.TypeFile(ns.Name, e.view)

	e.start("compound", attr("kind", "namespace"))
	e.element("name", names.Display(ns.Name))
	e.element("filename", file)

	for _, t := range ns.Types {
		if t.Kind == model.Enum {
			continue
		}
		e.element("class", names.TypeDisplay(t), attr("kind", string(t.Kind)))
	}

	for _, t := range ns.Enums() {
		defined := names.DefinedName(t)
		e.start("member", attr("kind", "enumeration"))
		e.element("type", names.TypeDisplay(t.Underlying))
		e.element("name", names.Display(defined))
		e.element("anchorfile", names.URL(defined))
		e.element("anchor", "")
		e.element("arglist", "")
		for _, v := range t.EnumValues {
			e.element("enumvalue", names.Display(v),
				attr("file", file),
				attr("anchor", names.EnumValueAnchor(t, v)))
		}
		e.end("member")
		tracker.Step()
	}

	e.end("compound")
}

func (e *Encoder) compound(t *model.Type) {
	defined := names.DefinedName(t)

	e.start("compound", attr("kind", string(t.Kind)))
	e.element("name", names.Display(defined))
	e.element("filename", names.TypeFile(defined, e.view))

	if t.IsGenericTypeDefinition() {
		for _, p := range t.GenericParams {
			e.element("templarg", p.Name)
		}
	}
	if base := graph.BaseDisplay(t); base != "" {
		e.element("base", base)
	}
	for _, rel := range graph.Relations(t) {
		e.element("base", rel)
	}

	for _, m := range aggregate.Members(t).All() {
		e.member(m)
	}

	e.end("compound")
}

func (e *Encoder) member(m *model.Member) {
	attrs := []xml.Attr{attr("kind", memberKind(m.Kind))}
	if m.IsProtected() {
		attrs = append(attrs, attr("protection", "protected"))
	}
	if m.IsStatic() {
		attrs = append(attrs, attr("static", "yes"))
	}
	if m.IsVirtual() {
		attrs = append(attrs, attr("virtualness", "virtual"))
	}

	e.start("member", attrs...)
	e.element("type", memberType(m))
	e.element("name", m.Name)
	e.element("anchorfile", names.MemberAnchorFile(m))
	e.element("anchor", names.MemberAnchor(m))
	switch m.Kind {
	case model.Method, model.Constructor:
		e.element("arglist", names.ArgList(m))
	case model.Property, model.Event:
		e.element("arglist", "")
	case model.Field:
		// fields carry no argument list
	}
	e.end("member")
}

func memberKind(k model.MemberKind) string {
	switch k {
	case model.Method, model.Constructor:
		return "function"
	default:
		return string(k)
	}
}

func memberType(m *model.Member) string {
	switch m.Kind {
	case model.Constructor:
		return ""
	case model.Method:
		if m.Type.IsVoid() {
			return ""
		}
	}
	return names.TypeDisplay(m.Type)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (e *Encoder) start(name string, attrs ...xml.Attr) {
	if e.err != nil {
		return
	}
	e.err = e.xml.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (e *Encoder) end(name string) {
	if e.err != nil {
		return
	}
	e.err = e.xml.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (e *Encoder) element(name, text string, attrs ...xml.Attr) {
	e.start(name, attrs...)
	if e.err == nil && text != "" {
		e.err = e.xml.EncodeToken(xml.CharData(text))
	}
	e.end(name)
}
