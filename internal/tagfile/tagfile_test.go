package tagfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/model"
	"github.com/phobologic/doxytags/internal/progress"
)

func sys(name string) *model.Type {
	return &model.Type{Namespace: "System", Name: name, FullName: "System." + name, Kind: model.Struct, Public: true}
}

func sampleCatalog() *model.Catalog {
	shape := &model.Type{Namespace: "Acme", Name: "IShape", FullName: "Acme.IShape", Kind: model.Interface, Public: true}
	point := &model.Type{Namespace: "Acme", Name: "Point", FullName: "Acme.Point", Kind: model.Struct, Public: true}
	color := &model.Type{
		Namespace: "Acme", Name: "Color", FullName: "Acme.Color", Kind: model.Enum, Public: true,
		Underlying: sys("Int32"), EnumValues: []string{"Red", "Green"},
	}
	circle := &model.Type{
		Namespace: "Acme", Name: "Circle", FullName: "Acme.Circle", Kind: model.Class, Public: true,
		Base: model.ObjectType(), Interfaces: []*model.Type{shape},
	}
	circle.Members = []model.Member{
		{Kind: model.Method, Name: "Area", DeclaringType: circle, Access: []model.Access{{Public: true, Virtual: true}}, Type: sys("Double")},
		{Kind: model.Constructor, Name: ".ctor", DeclaringType: circle, Access: []model.Access{{Public: true}},
			Params: []model.Param{{Name: "radius", Type: sys("Int32")}}},
		{Kind: model.Field, Name: "Pi", DeclaringType: circle, Access: []model.Access{{Public: true, Static: true}}, Type: sys("Double")},
	}

	return &model.Catalog{Namespaces: []model.Namespace{
		{Name: "Acme", Types: []*model.Type{circle, color, shape, point}},
	}}
}

const sampleTagFile = `<?xml version="1.0" standalone="yes"?>
<tagfile>
  <compound kind="namespace">
    <name>Acme</name>
    <filename>acme?view=v</filename>
    <class kind="class">Acme::Circle</class>
    <class kind="interface">Acme::IShape</class>
    <class kind="struct">Acme::Point</class>
    <member kind="enumeration">
      <type>System::Int32</type>
      <name>Acme::Color</name>
      <anchorfile>acme.color</anchorfile>
      <anchor></anchor>
      <arglist></arglist>
      <enumvalue file="acme?view=v" anchor="acme-color-red">Red</enumvalue>
      <enumvalue file="acme?view=v" anchor="acme-color-green">Green</enumvalue>
    </member>
  </compound>
  <compound kind="interface">
    <name>Acme::IShape</name>
    <filename>acme.ishape?view=v</filename>
  </compound>
  <compound kind="struct">
    <name>Acme::Point</name>
    <filename>acme.point?view=v</filename>
  </compound>
  <compound kind="class">
    <name>Acme::Circle</name>
    <filename>acme.circle?view=v</filename>
    <base>Acme::IShape</base>
    <member kind="field" static="yes">
      <type>System::Double</type>
      <name>Pi</name>
      <anchorfile>acme.circle.pi</anchorfile>
      <anchor>acme-circle-pi</anchor>
    </member>
    <member kind="function">
      <type></type>
      <name>.ctor</name>
      <anchorfile>acme.circle..ctor</anchorfile>
      <anchor>acme-circle--ctor(system-int32)</anchor>
      <arglist>(Int32 radius)</arglist>
    </member>
    <member kind="function" virtualness="virtual">
      <type>System::Double</type>
      <name>Area</name>
      <anchorfile>acme.circle.area</anchorfile>
      <anchor>acme-circle-area</anchor>
      <arglist>()</arglist>
    </member>
  </compound>
</tagfile>
`

func TestEncode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, sampleCatalog(), "v", nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.String(); got != sampleTagFile {
		t.Errorf("Encode output mismatch\ngot:\n%s\nwant:\n%s", got, sampleTagFile)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	if err := Encode(&a, sampleCatalog(), "v", nil); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, sampleCatalog(), "v", nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two runs over the same catalog differ")
	}
}

func TestEncodeProgressIgnoredByContent(t *testing.T) {
	t.Parallel()

	var withBar, without bytes.Buffer
	rec := &progress.Recorder{}
	if err := Encode(&withBar, sampleCatalog(), "v", rec); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&without, sampleCatalog(), "v", nil); err != nil {
		t.Fatal(err)
	}
	if withBar.String() != without.String() {
		t.Error("progress reporting changed the document")
	}

	values := rec.Values()
	if len(values) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Errorf("progress decreased: %v", values)
		}
	}
	if last := values[len(values)-1]; last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
	// One step per type: the enum and the three compounds.
	if len(values) != 4 {
		t.Errorf("progress reports = %v, want 4", values)
	}
}

func TestEncodeEmptyTypeStillEmitsCompound(t *testing.T) {
	t.Parallel()

	bare := &model.Type{Namespace: "N", Name: "Bare", FullName: "N.Bare", Kind: model.Class, Public: true}
	cat := &model.Catalog{Namespaces: []model.Namespace{{Name: "N", Types: []*model.Type{bare}}}}

	var buf bytes.Buffer
	if err := Encode(&buf, cat, "v", nil); err != nil {
		t.Fatal(err)
	}
	want := "  <compound kind=\"class\">\n    <name>N::Bare</name>\n    <filename>n.bare?view=v</filename>\n  </compound>\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("missing bare compound in:\n%s", buf.String())
	}
}

func TestEncodeGenericsAndAccessors(t *testing.T) {
	t.Parallel()

	tp := &model.Type{Name: "T", IsGenericParam: true}
	enumerable := &model.Type{
		Namespace: "System.Collections.Generic", Name: "IEnumerable`1",
		FullName: "System.Collections.Generic.IEnumerable`1", Kind: model.Interface, Public: true,
		GenericParams: []*model.Type{tp},
	}
	box := &model.Type{
		Namespace: "Acme", Name: "Box`1", FullName: "Acme.Box`1", Kind: model.Class, Public: true,
		GenericParams: []*model.Type{tp},
		Base:          model.ObjectType(),
	}
	box.Interfaces = []*model.Type{{
		Namespace: enumerable.Namespace, Name: enumerable.Name, Kind: model.Interface, Public: true,
		Definition: enumerable, GenericArgs: []*model.Type{tp},
	}}
	box.Members = []model.Member{
		{Kind: model.Property, Name: "Count", DeclaringType: box, Type: sys("Int32"),
			Access: []model.Access{{Public: true}, {Protected: true, Virtual: true}}},
		{Kind: model.Event, Name: "Changed", DeclaringType: box, Type: sys("EventHandler"),
			Access: []model.Access{{Public: true, Static: true}, {Public: true, Static: true}}},
		{Kind: model.Method, Name: "Put", DeclaringType: box, Type: sys("Void"), Access: []model.Access{{Public: true}},
			Params: []model.Param{{Name: "value", Type: tp, Modifier: model.Ref}}},
	}
	cat := &model.Catalog{Namespaces: []model.Namespace{{Name: "Acme", Types: []*model.Type{box}}}}

	var buf bytes.Buffer
	if err := Encode(&buf, cat, "netframework-4.0", nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"<filename>acme.box-1?view=netframework-4.0</filename>",
		"<templarg>T</templarg>",
		"<base>System::Collections::Generic::IEnumerable&lt; T &gt;</base>",
		`<member kind="property" protection="protected" virtualness="virtual">`,
		`<member kind="event" static="yes">`,
		"<type></type>\n      <name>Put</name>",
		"<anchor>acme-box-put(-0)</anchor>",
		"<arglist>(ref T value)</arglist>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Count(out, "<arglist></arglist>") != 2 {
		t.Errorf("want empty arglists for property and event\n%s", out)
	}
}

type failWriter struct{ after int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestEncodeWriteErrors(t *testing.T) {
	t.Parallel()

	for _, after := range []int{0, 1} {
		err := Encode(&failWriter{after: after}, sampleCatalog(), "v", nil)
		if !errors.Is(err, errors.ErrOutputSink) {
			t.Errorf("after=%d: err = %v, want output sink failure", after, err)
		}
	}
}

func TestEncodeNilCatalog(t *testing.T) {
	t.Parallel()

	err := Encode(&bytes.Buffer{}, nil, "v", nil)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("err = %v, want invalid argument", err)
	}
}
