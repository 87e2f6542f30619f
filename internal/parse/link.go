package parse

import (
	"strings"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/model"
)

// Unit is a decoded snapshot together with where it came from.
type Unit struct {
	Path     string
	Snapshot *Snapshot
}

// Linker turns decoded snapshots into linked model types. Type references are
// resolved across every unit linked together; ids no unit defines become
// public external placeholders.
type Linker struct {
	defs     map[string]*model.Type
	external map[string]*model.Type
}

// NewLinker returns an empty linker.
func NewLinker() *Linker {
	return &Linker{
		defs:     make(map[string]*model.Type),
		external: make(map[string]*model.Type),
	}
}

// Link converts units to assemblies, in order. The first definition of an id
// wins when several units define it.
func (l *Linker) Link(units []Unit) []*model.Assembly {
	asms := make([]*model.Assembly, len(units))
	shells := make([][]*model.Type, len(units))

	// Pass 1: create every definition so references can find it.
	for i, u := range units {
		asm := &model.Assembly{
			Name:     assemblyName(u),
			Company:  u.Snapshot.Company,
			System:   u.Snapshot.System,
			Location: u.Path,
		}
		if u.Snapshot.Error != "" {
			asm.TypesErr = errors.PartialMetadataf("assembly %s: %s", asm.Name, u.Snapshot.Error)
		}

		shells[i] = make([]*model.Type, len(u.Snapshot.Types))
		for j := range u.Snapshot.Types {
			ts := &u.Snapshot.Types[j]
			t := newDefinition(ts, asm.Name)
			if _, dup := l.defs[t.FullName]; !dup {
				l.defs[t.FullName] = t
			}
			shells[i][j] = t
		}
		asms[i] = asm
	}

	// Pass 2: enclosing types first, constructed references copy them.
	for i, u := range units {
		for j := range u.Snapshot.Types {
			if id := u.Snapshot.Types[j].DeclaringType; id != "" {
				shells[i][j].DeclaringType = l.lookup(id)
			}
		}
	}

	// Pass 3: resolve the remaining references.
	for i, u := range units {
		for j := range u.Snapshot.Types {
			t := shells[i][j]
			l.resolveType(t, &u.Snapshot.Types[j])
		}
		if asms[i].TypesErr == nil {
			asms[i].Types = shells[i]
		}
	}

	return asms
}

func assemblyName(u Unit) string {
	if u.Snapshot.Name != "" {
		return u.Snapshot.Name
	}
	base := u.Path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func newDefinition(ts *TypeSnapshot, asm string) *model.Type {
	id := ts.ID
	if id == "" {
		id = joinName(ts.Namespace, ts.Name)
	}
	t := &model.Type{
		Namespace: ts.Namespace,
		Name:      ts.Name,
		FullName:  id,
		Kind:      model.TypeKind(strings.ToLower(ts.Kind)),
		Public:    ts.Public,
		Assembly:  asm,
	}
	for pos, p := range ts.GenericParameters {
		t.GenericParams = append(t.GenericParams, &model.Type{Name: p, IsGenericParam: true, Position: pos})
	}
	switch {
	case ts.Error != "":
		t.MetadataErr = errors.PartialMetadataf("type %s: %s", id, ts.Error)
	case !t.Kind.Valid():
		t.MetadataErr = errors.PartialMetadataf("type %s: unknown kind %q", id, ts.Kind)
	}
	return t
}

func (l *Linker) resolveType(t *model.Type, ts *TypeSnapshot) {
	t.Base = l.resolve(ts.Base)
	for i := range ts.Interfaces {
		t.Interfaces = append(t.Interfaces, l.resolve(&ts.Interfaces[i]))
	}
	t.Underlying = l.resolve(ts.UnderlyingType)
	t.EnumValues = ts.Values

	for i := range ts.Members {
		ms := &ts.Members[i]
		kind := model.MemberKind(strings.ToLower(ms.Kind))
		if !kind.Valid() {
			if t.MetadataErr == nil {
				t.MetadataErr = errors.PartialMetadataf("type %s: member %s has unknown kind %q", t.FullName, ms.Name, ms.Kind)
			}
			continue
		}

		m := model.Member{
			Kind:          kind,
			Name:          ms.Name,
			DeclaringType: t,
			Type:          l.resolve(ms.Type),
			SpecialName:   ms.SpecialName,
		}
		if ms.DeclaringType != "" && ms.DeclaringType != t.FullName {
			m.DeclaringType = l.lookup(ms.DeclaringType)
		}
		for _, a := range ms.Access {
			m.Access = append(m.Access, model.Access{
				Public:    a.Public,
				Protected: a.Protected,
				Static:    a.Static,
				Virtual:   a.Virtual,
			})
		}
		for j := range ms.Params {
			ps := &ms.Params[j]
			m.Params = append(m.Params, model.Param{
				Name:     ps.Name,
				Type:     l.resolve(&ps.Type),
				Modifier: model.ParamModifier(strings.ToLower(ps.Modifier)),
			})
		}
		t.Members = append(t.Members, m)
	}
}

// resolve turns a reference into a type. Constructed references produce a
// fresh type whose Definition is the referenced definition.
func (l *Linker) resolve(ref *TypeRef) *model.Type {
	if ref == nil {
		return nil
	}
	if ref.Param != "" {
		return &model.Type{Name: ref.Param, IsGenericParam: true, Position: ref.Position}
	}
	if ref.Type == "" {
		return nil
	}

	def := l.lookup(ref.Type)
	if len(ref.Args) == 0 {
		return def
	}

	args := make([]*model.Type, len(ref.Args))
	for i := range ref.Args {
		args[i] = l.resolve(&ref.Args[i])
	}
	return &model.Type{
		Namespace:     def.Namespace,
		Name:          def.Name,
		Kind:          def.Kind,
		Public:        def.Public,
		DeclaringType: def.DeclaringType,
		Assembly:      def.Assembly,
		Definition:    def,
		GenericArgs:   args,
		External:      def.External,
	}
}

func (l *Linker) lookup(id string) *model.Type {
	if t, ok := l.defs[id]; ok {
		return t
	}
	if t, ok := l.external[id]; ok {
		return t
	}
	t := placeholder(id)
	l.external[id] = t
	return t
}

// placeholder builds a public class descriptor from an id alone:
// "A.B+C" has namespace "A" and name "C".
func placeholder(id string) *model.Type {
	head := id
	if i := strings.Index(id, "+"); i >= 0 {
		head = id[:i]
	}
	ns := ""
	if i := strings.LastIndex(head, "."); i >= 0 {
		ns = head[:i]
	}
	name := id[strings.LastIndexAny(id, ".+")+1:]

	return &model.Type{
		Namespace: ns,
		Name:      name,
		FullName:  id,
		Kind:      model.Class,
		Public:    true,
		External:  true,
	}
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
