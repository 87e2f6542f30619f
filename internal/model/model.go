// Package model defines core data structures for doxytags.
//
// All descriptors are snapshots built once by the loader and never mutated
// afterwards; the aggregator and the tag emitter only read them.
package model

// TypeKind classifies a type. It is decided once when the type is decoded.
type TypeKind string

const (
	Interface TypeKind = "interface"
	Class     TypeKind = "class"
	Struct    TypeKind = "struct"
	Enum      TypeKind = "enum"
)

// Valid reports whether k is one of the known kinds.
func (k TypeKind) Valid() bool {
	switch k {
	case Interface, Class, Struct, Enum:
		return true
	}
	return false
}

// MemberKind discriminates the Member variant.
type MemberKind string

const (
	Field       MemberKind = "field"
	Constructor MemberKind = "constructor"
	Method      MemberKind = "method"
	Property    MemberKind = "property"
	Event       MemberKind = "event"
)

// Valid reports whether k is one of the known kinds.
func (k MemberKind) Valid() bool {
	switch k {
	case Field, Constructor, Method, Property, Event:
		return true
	}
	return false
}

// ParamModifier is the passing mode of a method parameter.
type ParamModifier string

const (
	ByValue ParamModifier = ""
	Out     ParamModifier = "out"
	Ref     ParamModifier = "ref"
)

const (
	// ObjectNamespace and ObjectName identify the root object type.
	ObjectNamespace = "System"
	ObjectName      = "Object"
	ObjectFullName  = ObjectNamespace + "." + ObjectName

	// VoidFullName is the return type of methods that return nothing.
	VoidFullName = "System.Void"
)

// Assembly is a loaded assembly snapshot.
type Assembly struct {
	Name     string // file name without extension
	Company  string
	System   bool // system-provided (global assembly cache)
	Location string
	Types    []*Type
	TypesErr error // set when the type list could not be read
}

// Type is a reflected type: a definition, a constructed generic type, a
// generic parameter, or a placeholder for a type outside the loaded set.
type Type struct {
	Namespace     string
	Name          string // simple name including any `N arity marker
	FullName      string // may be empty for generic parameters
	Kind          TypeKind
	Public        bool // own accessibility, enclosing types not considered
	DeclaringType *Type
	Assembly      string

	GenericParams []*Type // set on generic type definitions

	Definition  *Type   // set on constructed generic types
	GenericArgs []*Type // arguments of a constructed generic type

	IsGenericParam bool
	Position       int

	Base       *Type
	Interfaces []*Type // as reported, possibly including inherited ones

	Underlying *Type    // enums only
	EnumValues []string // enums only

	Members     []Member
	MetadataErr error // set when the member or interface surface is unavailable
	External    bool  // placeholder for a type no loaded assembly defines
}

// IsGenericTypeDefinition reports whether t is an open generic definition.
func (t *Type) IsGenericTypeDefinition() bool {
	return t.Definition == nil && len(t.GenericParams) > 0
}

// IsConstructed reports whether t is a generic type with bound arguments.
func (t *Type) IsConstructed() bool {
	return t.Definition != nil
}

// IsGenericType reports whether t is either a definition or a constructed
// generic type.
func (t *Type) IsGenericType() bool {
	return t.IsGenericTypeDefinition() || t.IsConstructed()
}

// IsObject reports whether t is the root object type.
func (t *Type) IsObject() bool {
	return t != nil && !t.IsConstructed() && t.Namespace == ObjectNamespace && t.Name == ObjectName
}

// IsVoid reports whether t stands for "no value".
func (t *Type) IsVoid() bool {
	return t == nil || (t.Namespace == "System" && t.Name == "Void")
}

// Access holds accessibility flags of a member or of one of its accessors.
type Access struct {
	Public    bool
	Protected bool
	Static    bool
	Virtual   bool
}

// Param is one method parameter.
type Param struct {
	Name     string
	Type     *Type
	Modifier ParamModifier
}

// Member is a type member. Field, constructor and method carry exactly one
// Access entry; property and event carry one per accessor.
type Member struct {
	Kind          MemberKind
	Name          string
	DeclaringType *Type
	Access        []Access
	Type          *Type // field/property type, return type, handler type
	Params        []Param
	SpecialName   bool
}

// IsPublic reports whether any accessor is public.
func (m *Member) IsPublic() bool {
	return m.any(func(a Access) bool { return a.Public })
}

// IsProtected reports whether any accessor is protected.
func (m *Member) IsProtected() bool {
	return m.any(func(a Access) bool { return a.Protected })
}

// IsStatic reports whether any accessor is static.
func (m *Member) IsStatic() bool {
	return m.any(func(a Access) bool { return a.Static })
}

// IsVirtual reports whether any accessor is virtual. Fields are never virtual.
func (m *Member) IsVirtual() bool {
	if m.Kind == Field {
		return false
	}
	return m.any(func(a Access) bool { return a.Virtual })
}

func (m *Member) any(pred func(Access) bool) bool {
	for _, a := range m.Access {
		if pred(a) {
			return true
		}
	}
	return false
}

// Namespace groups the public types sharing a namespace name.
type Namespace struct {
	Name  string
	Types []*Type // ordered by (Name, generic definition last)
}

// Interfaces returns the interface types in namespace order.
func (ns *Namespace) Interfaces() []*Type { return ns.filter(Interface) }

// Structs returns the value types that are not enums, in namespace order.
func (ns *Namespace) Structs() []*Type { return ns.filter(Struct) }

// Classes returns the class types in namespace order.
func (ns *Namespace) Classes() []*Type { return ns.filter(Class) }

// Enums returns the enum types in namespace order.
func (ns *Namespace) Enums() []*Type { return ns.filter(Enum) }

func (ns *Namespace) filter(kind TypeKind) []*Type {
	var out []*Type
	for _, t := range ns.Types {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Catalog is the aggregated model, ready for emission.
type Catalog struct {
	Namespaces []Namespace
}

// TypeCount returns the number of types across all namespaces.
func (c *Catalog) TypeCount() int {
	n := 0
	for i := range c.Namespaces {
		n += len(c.Namespaces[i].Types)
	}
	return n
}

// ObjectType returns a synthetic descriptor for the root object type.
func ObjectType() *Type {
	return &Type{
		Namespace: ObjectNamespace,
		Name:      ObjectName,
		FullName:  ObjectFullName,
		Kind:      Class,
		Public:    true,
	}
}
