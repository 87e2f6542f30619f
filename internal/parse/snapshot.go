package parse

// Snapshot is the on-disk form of one assembly's reflected metadata, written
// by an external reflection dumper as JSON or YAML.
type Snapshot struct {
	Name    string         `json:"name" yaml:"name"`
	Company string         `json:"company" yaml:"company"`
	System  bool           `json:"system" yaml:"system"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
	Types   []TypeSnapshot `json:"types" yaml:"types"`
}

// TypeSnapshot describes one type definition.
type TypeSnapshot struct {
	ID                string           `json:"id" yaml:"id"`
	Namespace         string           `json:"namespace" yaml:"namespace"`
	Name              string           `json:"name" yaml:"name"`
	Kind              string           `json:"kind" yaml:"kind"`
	Public            bool             `json:"public" yaml:"public"`
	DeclaringType     string           `json:"declaringType,omitempty" yaml:"declaringType,omitempty"`
	GenericParameters []string         `json:"genericParameters,omitempty" yaml:"genericParameters,omitempty"`
	Base              *TypeRef         `json:"base,omitempty" yaml:"base,omitempty"`
	Interfaces        []TypeRef        `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	UnderlyingType    *TypeRef         `json:"underlyingType,omitempty" yaml:"underlyingType,omitempty"`
	Values            []string         `json:"values,omitempty" yaml:"values,omitempty"`
	Members           []MemberSnapshot `json:"members,omitempty" yaml:"members,omitempty"`
	Error             string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// TypeRef points at a type: a definition by id, optionally constructed with
// generic arguments, or a generic parameter by name and position.
type TypeRef struct {
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Args     []TypeRef `json:"args,omitempty" yaml:"args,omitempty"`
	Param    string    `json:"param,omitempty" yaml:"param,omitempty"`
	Position int       `json:"position,omitempty" yaml:"position,omitempty"`
}

// MemberSnapshot describes one member. DeclaringType is empty when the member
// is declared by the type that lists it.
type MemberSnapshot struct {
	Kind          string           `json:"kind" yaml:"kind"`
	Name          string           `json:"name" yaml:"name"`
	DeclaringType string           `json:"declaringType,omitempty" yaml:"declaringType,omitempty"`
	Access        []AccessSnapshot `json:"access,omitempty" yaml:"access,omitempty"`
	Type          *TypeRef         `json:"type,omitempty" yaml:"type,omitempty"`
	Params        []ParamSnapshot  `json:"params,omitempty" yaml:"params,omitempty"`
	SpecialName   bool             `json:"specialName,omitempty" yaml:"specialName,omitempty"`
}

// AccessSnapshot holds the flags of a member or of one accessor.
type AccessSnapshot struct {
	Public    bool `json:"public,omitempty" yaml:"public,omitempty"`
	Protected bool `json:"protected,omitempty" yaml:"protected,omitempty"`
	Static    bool `json:"static,omitempty" yaml:"static,omitempty"`
	Virtual   bool `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

// ParamSnapshot describes one method parameter. Modifier is "", "out" or "ref".
type ParamSnapshot struct {
	Name     string  `json:"name" yaml:"name"`
	Type     TypeRef `json:"type" yaml:"type"`
	Modifier string  `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}
