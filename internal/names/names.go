// Package names normalizes reflected type and member names into the display,
// URL and anchor forms used in the tag file.
package names

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/doxytags/internal/model"
)

var (
	separators = regexp.MustCompile(`[.+]`)
	arity      = regexp.MustCompile("`\\d+")
	anchorRuns = regexp.MustCompile(`[.+:, _]+`)
)

// Display turns a raw defined name into its display form:
// System.Collections.Generic.List`1[[System.String]] becomes
// System::Collections::Generic::List< System::String >.
func Display(raw string) string {
	s := separators.ReplaceAllString(raw, "::")
	s = arity.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "[[", "< ")
	s = strings.ReplaceAll(s, "]]", " >")
	return s
}

// URL turns a raw name into the fragment of a documentation file reference.
func URL(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), "`", "-")
}

// Anchor turns a raw name into a same-page anchor identifier.
func Anchor(raw string) string {
	s := strings.ToLower(raw)
	s = separators.ReplaceAllString(s, "-")
	s = arity.ReplaceAllString(s, "")
	s = anchorRuns.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "[", "(")
	s = strings.ReplaceAll(s, "]", ")")
	s = strings.ReplaceAll(s, "&", "@")
	return s
}

// DefinedName returns the namespace-qualified identity of t with nested
// generic arguments embedded as [[arg, arg]].
func DefinedName(t *model.Type) string {
	switch {
	case t == nil:
		return ""
	case t.IsGenericParam:
		return t.Name
	case t.IsConstructed():
		args := make([]string, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			args[i] = DefinedName(a)
		}
		return fmt.Sprintf("%s.%s[[%s]]", t.Namespace, t.Name, strings.Join(args, ", "))
	case t.FullName != "":
		return t.FullName
	default:
		return t.Namespace + "." + t.Name
	}
}

// TypeDisplay is Display(DefinedName(t)).
func TypeDisplay(t *model.Type) string {
	return Display(DefinedName(t))
}

// TypeFile returns the documentation file reference of a type or namespace
// name, with the view query appended.
func TypeFile(raw, view string) string {
	return URL(raw) + "?view=" + view
}

// MemberAnchorFile returns the anchor file reference of a member.
func MemberAnchorFile(m *model.Member) string {
	return URL(DefinedName(m.DeclaringType) + "." + m.Name)
}

// MemberAnchor returns the anchor of a member. Methods and constructors with
// parameters carry a parenthesized signature so overloads stay distinct.
func MemberAnchor(m *model.Member) string {
	return Anchor(DefinedName(m.DeclaringType) + "-" + m.Name + signature(m))
}

// EnumValueAnchor returns the anchor of one enumeration constant.
func EnumValueAnchor(enum *model.Type, value string) string {
	return Anchor(DefinedName(enum) + "-" + value)
}

// ArgList renders the argument list text of a method or constructor:
// (out Int32 count, String name).
func ArgList(m *model.Member) string {
	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		typeName := ""
		if p.Type != nil {
			typeName = strings.ReplaceAll(p.Type.Name, "&", "")
		}
		args[i] = modifierPrefix(p.Modifier) + typeName + " " + p.Name
	}
	return "(" + strings.Join(args, ", ") + ")"
}

func signature(m *model.Member) string {
	if m.Kind != model.Method && m.Kind != model.Constructor {
		return ""
	}
	if len(m.Params) == 0 {
		return ""
	}
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = paramAnchor(p)
	}
	return "(" + strings.ReplaceAll(strings.Join(parts, "-"), "--", "-") + ")"
}

// paramAnchor uses the position of a generic parameter instead of its name so
// that overloads differing only by type-parameter position stay distinct.
func paramAnchor(p model.Param) string {
	if p.Type != nil && p.Type.IsGenericParam {
		return fmt.Sprintf("-%d", p.Type.Position)
	}
	name := DefinedName(p.Type)
	if p.Modifier != model.ByValue {
		name += "&"
	}
	return name
}

func modifierPrefix(mod model.ParamModifier) string {
	switch mod {
	case model.Out:
		return "out "
	case model.Ref:
		return "ref "
	}
	return ""
}
