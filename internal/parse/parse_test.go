package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/model"
)

const shapesJSON = `{
  "name": "Acme.Shapes",
  "company": "Acme",
  "types": [
    {
      "id": "Acme.IShape", "namespace": "Acme", "name": "IShape",
      "kind": "interface", "public": true
    },
    {
      "id": "Acme.Box` + "`" + `1", "namespace": "Acme", "name": "Box` + "`" + `1",
      "kind": "class", "public": true, "genericParameters": ["T"],
      "base": {"type": "System.Object"},
      "interfaces": [{"type": "System.Collections.Generic.IEnumerable` + "`" + `1", "args": [{"param": "T"}]}],
      "members": [
        {"kind": "method", "name": "Put", "access": [{"public": true}],
         "type": {"type": "System.Void"},
         "params": [{"name": "value", "type": {"param": "T"}, "modifier": "ref"}]},
        {"kind": "property", "name": "Count",
         "access": [{"public": true}, {"protected": true, "virtual": true}],
         "type": {"type": "System.Int32"}}
      ]
    },
    {
      "id": "Acme.Box` + "`" + `1+Lid", "namespace": "Acme", "name": "Lid",
      "kind": "struct", "public": true, "declaringType": "Acme.Box` + "`" + `1"
    },
    {
      "id": "Acme.Color", "namespace": "Acme", "name": "Color", "kind": "enum",
      "public": true, "underlyingType": {"type": "System.Int32"},
      "values": ["Red", "Green"]
    }
  ]
}`

const shapesYAML = `name: Acme.Shapes
company: Acme
types:
  - id: Acme.IShape
    namespace: Acme
    name: IShape
    kind: interface
    public: true
  - id: "Acme.Box` + "`" + `1"
    namespace: Acme
    name: "Box` + "`" + `1"
    kind: class
    public: true
    genericParameters: [T]
    base: {type: System.Object}
    interfaces:
      - type: "System.Collections.Generic.IEnumerable` + "`" + `1"
        args: [{param: T}]
    members:
      - kind: method
        name: Put
        access: [{public: true}]
        type: {type: System.Void}
        params:
          - name: value
            type: {param: T}
            modifier: ref
      - kind: property
        name: Count
        access:
          - public: true
          - protected: true
            virtual: true
        type: {type: System.Int32}
  - id: "Acme.Box` + "`" + `1+Lid"
    namespace: Acme
    name: Lid
    kind: struct
    public: true
    declaringType: "Acme.Box` + "`" + `1"
  - id: Acme.Color
    namespace: Acme
    name: Color
    kind: enum
    public: true
    underlyingType: {type: System.Int32}
    values: [Red, Green]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func findType(asm *model.Assembly, fullName string) *model.Type {
	for _, t := range asm.Types {
		if t.FullName == fullName {
			return t
		}
	}
	return nil
}

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".json", FormatJSON},
		{".JSON", FormatJSON},
		{".yaml", FormatYAML},
		{".yml", FormatYAML},
		{".dll", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ForExtension(tt.ext); got != tt.want {
			t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestDecodeFormatsAgree(t *testing.T) {
	t.Parallel()

	fromJSON, err := Decode(FormatJSON, []byte(shapesJSON))
	if err != nil {
		t.Fatalf("Decode json: %v", err)
	}
	fromYAML, err := Decode(FormatYAML, []byte(shapesYAML))
	if err != nil {
		t.Fatalf("Decode yaml: %v", err)
	}

	if len(fromJSON.Types) != 4 || len(fromYAML.Types) != 4 {
		t.Fatalf("type counts = %d, %d, want 4", len(fromJSON.Types), len(fromYAML.Types))
	}
	for i := range fromJSON.Types {
		j, y := fromJSON.Types[i], fromYAML.Types[i]
		if j.ID != y.ID || j.Kind != y.Kind || j.DeclaringType != y.DeclaringType || len(j.Members) != len(y.Members) {
			t.Errorf("type %d differs: json %+v, yaml %+v", i, j, y)
		}
	}
	put := fromYAML.Types[1].Members[0]
	if put.Params[0].Modifier != "ref" || put.Params[0].Type.Param != "T" {
		t.Errorf("yaml param = %+v", put.Params[0])
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	if _, err := Decode("xml", []byte("<a/>")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := Decode(FormatJSON, []byte("{")); err == nil {
		t.Error("expected error for truncated json")
	}
}

func TestLink(t *testing.T) {
	t.Parallel()

	snap, err := Decode(FormatJSON, []byte(shapesJSON))
	if err != nil {
		t.Fatal(err)
	}
	asms := NewLinker().Link([]Unit{{Path: "shapes.json", Snapshot: snap}})
	if len(asms) != 1 {
		t.Fatalf("got %d assemblies, want 1", len(asms))
	}
	asm := asms[0]
	if asm.Name != "Acme.Shapes" || asm.Company != "Acme" || asm.Location != "shapes.json" {
		t.Errorf("assembly = %+v", asm)
	}

	box := findType(asm, "Acme.Box`1")
	if box == nil {
		t.Fatal("Box`1 not linked")
	}
	if !box.IsGenericTypeDefinition() || box.GenericParams[0].Name != "T" {
		t.Errorf("Box`1 generic params = %v", box.GenericParams)
	}
	if !box.Base.IsObject() || !box.Base.External {
		t.Errorf("Box`1 base = %+v, want external System.Object", box.Base)
	}

	enumerable := box.Interfaces[0]
	if !enumerable.IsConstructed() || enumerable.Definition.FullName != "System.Collections.Generic.IEnumerable`1" {
		t.Errorf("interface = %+v", enumerable)
	}
	if enumerable.Namespace != "System.Collections.Generic" || enumerable.Name != "IEnumerable`1" {
		t.Errorf("placeholder names = %q, %q", enumerable.Namespace, enumerable.Name)
	}
	if !enumerable.GenericArgs[0].IsGenericParam {
		t.Errorf("interface arg = %+v", enumerable.GenericArgs[0])
	}

	put := box.Members[0]
	if put.Kind != model.Method || put.DeclaringType != box || !put.Type.IsVoid() {
		t.Errorf("Put = %+v", put)
	}
	if put.Params[0].Modifier != model.Ref {
		t.Errorf("Put modifier = %q", put.Params[0].Modifier)
	}
	count := box.Members[1]
	if !count.IsPublic() || !count.IsProtected() || !count.IsVirtual() || count.IsStatic() {
		t.Errorf("Count access = %+v", count.Access)
	}

	lid := findType(asm, "Acme.Box`1+Lid")
	if lid.DeclaringType != box {
		t.Errorf("Lid declaring type = %+v", lid.DeclaringType)
	}

	color := findType(asm, "Acme.Color")
	if color.Kind != model.Enum || color.Underlying.Name != "Int32" || len(color.EnumValues) != 2 {
		t.Errorf("Color = %+v", color)
	}
}

func TestLinkAcrossUnits(t *testing.T) {
	t.Parallel()

	core := &Snapshot{Name: "mscorlib", System: true, Types: []TypeSnapshot{
		{ID: "System.Object", Namespace: "System", Name: "Object", Kind: "class", Public: true},
	}}
	app := &Snapshot{Name: "App", Types: []TypeSnapshot{
		{ID: "App.Thing", Namespace: "App", Name: "Thing", Kind: "class", Public: true, Base: &TypeRef{Type: "System.Object"}},
	}}

	asms := NewLinker().Link([]Unit{{Path: "a", Snapshot: app}, {Path: "b", Snapshot: core}})
	thing := asms[0].Types[0]
	if thing.Base != asms[1].Types[0] {
		t.Errorf("base should resolve to the loaded System.Object, got %+v", thing.Base)
	}
	if thing.Base.External {
		t.Error("loaded definition marked external")
	}
}

func TestLinkFirstDefinitionWins(t *testing.T) {
	t.Parallel()

	a := &Snapshot{Name: "A", Types: []TypeSnapshot{{ID: "X.T", Namespace: "X", Name: "T", Kind: "class", Public: true}}}
	b := &Snapshot{Name: "B", Types: []TypeSnapshot{{ID: "X.T", Namespace: "X", Name: "T", Kind: "struct", Public: true}}}
	c := &Snapshot{Name: "C", Types: []TypeSnapshot{
		{ID: "X.U", Namespace: "X", Name: "U", Kind: "class", Public: true, Base: &TypeRef{Type: "X.T"}},
	}}

	asms := NewLinker().Link([]Unit{{Snapshot: a}, {Snapshot: b}, {Snapshot: c}})
	if got := asms[2].Types[0].Base.Assembly; got != "A" {
		t.Errorf("base resolved to assembly %q, want A", got)
	}
}

func TestLinkPartialMetadata(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{Name: "Broken", Types: []TypeSnapshot{
		{ID: "B.Bad", Namespace: "B", Name: "Bad", Kind: "delegate", Public: true},
		{ID: "B.Gap", Namespace: "B", Name: "Gap", Kind: "class", Public: true, Error: "missing dependency"},
		{ID: "B.Odd", Namespace: "B", Name: "Odd", Kind: "class", Public: true,
			Members: []MemberSnapshot{{Kind: "indexer", Name: "Item"}, {Kind: "field", Name: "ok"}}},
	}}
	asm := NewLinker().Link([]Unit{{Snapshot: snap}})[0]

	for _, typ := range asm.Types {
		if !errors.Is(typ.MetadataErr, errors.ErrPartialMetadata) {
			t.Errorf("%s: MetadataErr = %v, want partial metadata", typ.FullName, typ.MetadataErr)
		}
	}
	if odd := findType(asm, "B.Odd"); len(odd.Members) != 1 {
		t.Errorf("Odd members = %v, want only the field", odd.Members)
	}
}

func TestLinkAssemblyTypesError(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{Name: "Half", Error: "loader exception", Types: []TypeSnapshot{
		{ID: "H.T", Namespace: "H", Name: "T", Kind: "class", Public: true},
	}}
	asm := NewLinker().Link([]Unit{{Snapshot: snap}})[0]
	if !errors.Is(asm.TypesErr, errors.ErrPartialMetadata) {
		t.Errorf("TypesErr = %v", asm.TypesErr)
	}
	if got := DeclaredTypes(asm); got != nil {
		t.Errorf("DeclaredTypes = %v, want nil", got)
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id, ns, name string
	}{
		{"System.String", "System", "String"},
		{"A.B+C", "A", "C"},
		{"Global", "", "Global"},
		{"A.B.C+D+E", "A.B", "E"},
	}
	for _, tt := range tests {
		p := placeholder(tt.id)
		if p.Namespace != tt.ns || p.Name != tt.name || !p.Public || !p.External || p.Kind != model.Class {
			t.Errorf("placeholder(%q) = %+v", tt.id, p)
		}
	}
}

func TestAssemblyNameFallsBackToFile(t *testing.T) {
	t.Parallel()

	u := Unit{Path: filepath.Join("dir", "System.Xml.json"), Snapshot: &Snapshot{}}
	if got := assemblyName(u); got != "System.Xml" {
		t.Errorf("assemblyName = %q", got)
	}
}

func TestLoadAssembly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "shapes.yaml", shapesYAML)

	asm, err := LoadAssembly(path)
	if err != nil {
		t.Fatalf("LoadAssembly: %v", err)
	}
	if len(DeclaredTypes(asm)) != 4 {
		t.Errorf("types = %d, want 4", len(asm.Types))
	}

	_, err = LoadAssembly(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrLoadFailure) {
		t.Errorf("missing file error = %v, want load failure", err)
	}

	bad := writeFile(t, dir, "bad.json", "not json")
	_, err = LoadAssembly(bad)
	if !errors.Is(err, errors.ErrLoadFailure) {
		t.Errorf("bad file error = %v, want load failure", err)
	}
}

func TestLoaderSkipsFailuresAndKeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "c.json", `{"name":"c","types":[]}`),
		writeFile(t, dir, "broken.json", "{"),
		writeFile(t, dir, "a.json", `{"name":"a","types":[]}`),
		writeFile(t, dir, "b.yml", "name: b\ntypes: []\n"),
	}

	l := &Loader{Workers: 2}
	asms := l.Load(paths)

	var got []string
	for _, a := range asms {
		got = append(got, a.Name)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("loaded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("loaded[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoaderEmpty(t *testing.T) {
	t.Parallel()

	if got := (&Loader{}).Load(nil); got != nil {
		t.Errorf("Load(nil) = %v", got)
	}
}
