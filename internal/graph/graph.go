// Package graph resolves the interface relations a type compound states
// directly, dropping those already implied by its base type or by another of
// its interfaces.
package graph

import (
	"strings"

	"github.com/phobologic/doxytags/internal/model"
	"github.com/phobologic/doxytags/internal/names"
)

// NotPublic reports whether t or any of its enclosing types is not public.
func NotPublic(t *model.Type) bool {
	for ; t != nil; t = t.DeclaringType {
		if !t.Public {
			return true
		}
	}
	return false
}

// InterfacesOf returns the interfaces t implements. For a constructed generic
// type these are its definition's interfaces with the generic parameters
// replaced by t's arguments.
func InterfacesOf(t *model.Type) []*model.Type {
	if t == nil {
		return nil
	}
	if !t.IsConstructed() {
		return t.Interfaces
	}
	def := t.Definition.Interfaces
	out := make([]*model.Type, len(def))
	for i, it := range def {
		out[i] = Substitute(it, t.GenericArgs)
	}
	return out
}

// BaseOf returns the base type of t, substituting generic arguments for a
// constructed generic type.
func BaseOf(t *model.Type) *model.Type {
	if t == nil {
		return nil
	}
	if !t.IsConstructed() {
		return t.Base
	}
	return Substitute(t.Definition.Base, t.GenericArgs)
}

// Substitute replaces generic parameters in t by the argument at their
// position. Types that mention no parameter are returned unchanged.
func Substitute(t *model.Type, args []*model.Type) *model.Type {
	switch {
	case t == nil:
		return nil
	case t.IsGenericParam:
		if t.Position >= 0 && t.Position < len(args) {
			return args[t.Position]
		}
		return t
	case t.IsConstructed():
		changed := false
		bound := make([]*model.Type, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			bound[i] = Substitute(a, args)
			if bound[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		c := *t
		c.GenericArgs = bound
		return &c
	default:
		return t
	}
}

// Redundant reports whether iface is already reachable from the interfaces
// of base (and its own bases) or from the interfaces implemented by any of
// the declared interfaces. It is a breadth-first search over an explicit
// queue; a visited set keeps it finite on cyclic input.
func Redundant(iface, base *model.Type, declared []*model.Type) bool {
	if iface == nil {
		return false
	}

	var queue []*model.Type
	seenBase := make(map[string]struct{})
	for b := base; b != nil; b = BaseOf(b) {
		key := names.DefinedName(b)
		if _, dup := seenBase[key]; dup {
			break
		}
		seenBase[key] = struct{}{}
		queue = append(queue, InterfacesOf(b)...)
	}
	for _, d := range declared {
		queue = append(queue, InterfacesOf(d)...)
	}

	want := names.DefinedName(iface)
	visited := make(map[string]struct{})
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it == nil {
			continue
		}

		key := names.DefinedName(it)
		if key == want {
			return true
		}
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}
		queue = append(queue, InterfacesOf(it)...)
	}
	return false
}

// Relations returns the display names of the interfaces t states directly:
// public ones that no base type or sibling interface already implies.
func Relations(t *model.Type) []string {
	declared := InterfacesOf(t)
	base := BaseOf(t)

	var out []string
	for _, it := range declared {
		if NotPublic(it) || Redundant(it, base, declared) {
			continue
		}
		out = append(out, InterfaceDisplay(it))
	}
	return out
}

// InterfaceDisplay renders an interface reference. Generic interfaces are
// written as Name< Arg1, Arg2 >.
func InterfaceDisplay(it *model.Type) string {
	if !it.IsGenericType() {
		return names.TypeDisplay(it)
	}

	args := it.GenericArgs
	if !it.IsConstructed() {
		args = it.GenericParams
	}
	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = names.TypeDisplay(a)
	}
	return names.Display(it.Namespace+"."+it.Name) + "< " + strings.Join(rendered, ", ") + " >"
}

// BaseDisplay returns the text of the base element of t, or "" when t has no
// base worth stating: the root object type itself, a type without a base,
// and a type deriving directly from the root object type.
//
// The base is written by its defined name as declared; generic arguments
// inherited through a constructed base are not substituted again.
func BaseDisplay(t *model.Type) string {
	if t == nil || t.IsObject() || t.Base == nil || t.Base.IsObject() {
		return ""
	}
	return names.TypeDisplay(t.Base)
}
