// Package aggregate groups the public types of the selected assemblies into
// the namespace catalog the tag file is rendered from.
package aggregate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/phobologic/doxytags/internal/graph"
	"github.com/phobologic/doxytags/internal/logger"
	"github.com/phobologic/doxytags/internal/model"
	"github.com/phobologic/doxytags/internal/parse"
)

// Aggregate collects the public types of asms, in assembly order, and groups
// them by namespace. Types whose metadata could not be read are logged and
// left out. The root object type is added when no assembly provides it.
func Aggregate(asms []*model.Assembly, log *zap.SugaredLogger) *model.Catalog {
	if log == nil {
		log = logger.Nop()
	}

	var types []*model.Type
	hasObject := false
	for _, asm := range asms {
		if asm == nil {
			continue
		}
		if asm.TypesErr != nil {
			log.Warnw("assembly contributes no types", logger.FieldAssembly, asm.Name, logger.FieldError, asm.TypesErr)
		}
		for _, t := range parse.DeclaredTypes(asm) {
			if t.MetadataErr != nil {
				log.Warnw("skipping type", logger.FieldAssembly, asm.Name, logger.FieldType, t.FullName, logger.FieldError, t.MetadataErr)
				continue
			}
			if graph.NotPublic(t) {
				continue
			}
			if t.IsObject() {
				if hasObject {
					continue
				}
				hasObject = true
			}
			types = append(types, t)
		}
	}
	if !hasObject {
		types = append(types, model.ObjectType())
	}

	sort.SliceStable(types, func(i, j int) bool {
		a, b := types[i], types[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return !a.IsGenericTypeDefinition() && b.IsGenericTypeDefinition()
	})

	index := make(map[string]int)
	var cat model.Catalog
	for _, t := range types {
		i, ok := index[t.Namespace]
		if !ok {
			i = len(cat.Namespaces)
			index[t.Namespace] = i
			cat.Namespaces = append(cat.Namespaces, model.Namespace{Name: t.Namespace})
		}
		cat.Namespaces[i].Types = append(cat.Namespaces[i].Types, t)
	}

	sort.SliceStable(cat.Namespaces, func(i, j int) bool {
		return cat.Namespaces[i].Name < cat.Namespaces[j].Name
	})

	log.Debugw("aggregated types", logger.FieldCount, len(types), logger.FieldNamespace, len(cat.Namespaces))
	return &cat
}

// MemberGroups holds the members a type compound lists, each group ordered by
// name.
type MemberGroups struct {
	Fields       []*model.Member
	Constructors []*model.Member
	Methods      []*model.Member
	Properties   []*model.Member
	Events       []*model.Member
}

// All returns every member in render order: fields, constructors, methods,
// properties, events.
func (g MemberGroups) All() []*model.Member {
	out := make([]*model.Member, 0, len(g.Fields)+len(g.Constructors)+len(g.Methods)+len(g.Properties)+len(g.Events))
	out = append(out, g.Fields...)
	out = append(out, g.Constructors...)
	out = append(out, g.Methods...)
	out = append(out, g.Properties...)
	out = append(out, g.Events...)
	return out
}

// Members classifies the public members t declares itself. Inherited members
// and special-name methods are left out.
func Members(t *model.Type) MemberGroups {
	var g MemberGroups
	if t == nil || t.MetadataErr != nil {
		return g
	}
	for i := range t.Members {
		m := &t.Members[i]
		if m.DeclaringType != t || !m.IsPublic() {
			continue
		}
		switch m.Kind {
		case model.Field:
			g.Fields = append(g.Fields, m)
		case model.Constructor:
			g.Constructors = append(g.Constructors, m)
		case model.Method:
			if m.SpecialName {
				continue
			}
			g.Methods = append(g.Methods, m)
		case model.Property:
			g.Properties = append(g.Properties, m)
		case model.Event:
			g.Events = append(g.Events, m)
		}
	}
	for _, group := range [][]*model.Member{g.Fields, g.Constructors, g.Methods, g.Properties, g.Events} {
		sortByName(group)
	}
	return g
}

func sortByName(ms []*model.Member) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Name < ms[j].Name
	})
}
