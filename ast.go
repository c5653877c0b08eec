package jtd

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TypeKeyword is one of the 11 primitive type keywords a Type form schema
// may carry, per RFC 8927 Section 2.2.3.
type TypeKeyword string

// The 11 type keywords, named and serialized exactly as their lowercase
// JSON identifier.
const (
	TypeBoolean   TypeKeyword = "boolean"
	TypeString    TypeKeyword = "string"
	TypeTimestamp TypeKeyword = "timestamp"
	TypeInt8      TypeKeyword = "int8"
	TypeUint8     TypeKeyword = "uint8"
	TypeInt16     TypeKeyword = "int16"
	TypeUint16    TypeKeyword = "uint16"
	TypeInt32     TypeKeyword = "int32"
	TypeUint32    TypeKeyword = "uint32"
	TypeFloat32   TypeKeyword = "float32"
	TypeFloat64   TypeKeyword = "float64"
)

// allTypeKeywords is consulted by ParseTypeKeyword; order doesn't matter,
// membership does.
var allTypeKeywords = map[TypeKeyword]bool{
	TypeBoolean: true, TypeString: true, TypeTimestamp: true,
	TypeInt8: true, TypeUint8: true, TypeInt16: true, TypeUint16: true,
	TypeInt32: true, TypeUint32: true, TypeFloat32: true, TypeFloat64: true,
}

// ParseTypeKeyword parses a raw JSON "type" value into a TypeKeyword, or
// reports false if it isn't one of the 11 recognized keywords.
func ParseTypeKeyword(s string) (TypeKeyword, bool) {
	tk := TypeKeyword(s)
	if !allTypeKeywords[tk] {
		return "", false
	}
	return tk, true
}

// Form identifies which of the 9 AST constructors a Node is.
type Form int

const (
	FormEmpty Form = iota
	FormRef
	FormType
	FormEnum
	FormElements
	FormProperties
	FormValues
	FormDiscriminator
	FormNullable
)

// StringMap is the ordered string-keyed map used everywhere spec.md calls
// for an "ordered mapping": schema Definitions, Properties' required and
// optional maps, and Discriminator's mapping. Iteration order is
// deterministic and, by construction (every compiler insertion happens in
// sorted order), is always lexicographic -- see Compile.
type StringMap = orderedmap.OrderedMap[string, *Node]

// NewStringMap returns an empty ordered string-keyed map of *Node.
func NewStringMap() *StringMap {
	return orderedmap.New[string, *Node]()
}

// Node is an immutable tagged-variant JTD schema AST node. Exactly one of
// the per-Form payload groups below is meaningful for a given node's Form;
// which one is determined entirely by Form. A Node owns its children
// exclusively -- Ref holds a name, never a pointer, so there are no cycles.
type Node struct {
	form Form

	// FormRef
	refName string

	// FormType
	typeKeyword TypeKeyword

	// FormEnum
	enumValues []string

	// FormElements, FormValues: the inner schema.
	inner *Node

	// FormProperties
	required             *StringMap
	optional             *StringMap
	additionalProperties bool

	// FormDiscriminator
	discriminatorTag string
	mapping          *StringMap

	// FormNullable wraps any other node, including another Nullable.
	nullableInner *Node
}

// Form returns which of the 9 AST constructors n is.
func (n *Node) Form() Form {
	if n == nil {
		return FormEmpty
	}
	return n.form
}

// IsEmpty reports whether n is the Empty form (accepts any JSON value).
func (n *Node) IsEmpty() bool {
	return n.Form() == FormEmpty
}

// RefName returns the definition name for a Ref node.
func (n *Node) RefName() string { return n.refName }

// TypeKeyword returns the primitive keyword for a Type node.
func (n *Node) TypeKeyword() TypeKeyword { return n.typeKeyword }

// EnumValues returns the ordered, deduplicated string set for an Enum node.
func (n *Node) EnumValues() []string { return n.enumValues }

// Inner returns the element/value schema for an Elements or Values node.
func (n *Node) Inner() *Node { return n.inner }

// Required returns the required property map for a Properties node.
func (n *Node) Required() *StringMap { return n.required }

// Optional returns the optional property map for a Properties node.
func (n *Node) Optional() *StringMap { return n.optional }

// AdditionalProperties reports whether a Properties node allows unknown
// keys.
func (n *Node) AdditionalProperties() bool { return n.additionalProperties }

// DiscriminatorTag returns the tag property name for a Discriminator node.
func (n *Node) DiscriminatorTag() string { return n.discriminatorTag }

// Mapping returns the tag-value to Properties-node map for a Discriminator
// node.
func (n *Node) Mapping() *StringMap { return n.mapping }

// NullableInner returns the wrapped node for a Nullable node.
func (n *Node) NullableInner() *Node { return n.nullableInner }

// IsNullableOfEmpty reports whether n is Nullable wrapping Empty, which
// Section 8 (invariant 5) requires emitters to treat identically to Empty.
func (n *Node) IsNullableOfEmpty() bool {
	return n.Form() == FormNullable && n.nullableInner.IsEmpty()
}

func newEmpty() *Node { return &Node{form: FormEmpty} }

func newRef(name string) *Node { return &Node{form: FormRef, refName: name} }

func newType(tk TypeKeyword) *Node { return &Node{form: FormType, typeKeyword: tk} }

func newEnum(values []string) *Node { return &Node{form: FormEnum, enumValues: values} }

func newElements(inner *Node) *Node { return &Node{form: FormElements, inner: inner} }

func newValues(inner *Node) *Node { return &Node{form: FormValues, inner: inner} }

func newProperties(required, optional *StringMap, additional bool) *Node {
	return &Node{
		form:                 FormProperties,
		required:             required,
		optional:             optional,
		additionalProperties: additional,
	}
}

func newDiscriminator(tag string, mapping *StringMap) *Node {
	return &Node{form: FormDiscriminator, discriminatorTag: tag, mapping: mapping}
}

func newNullable(inner *Node) *Node {
	return &Node{form: FormNullable, nullableInner: inner}
}

// CompiledSchema is the output of Compile: an immutable root node plus the
// map of named definitions it (and any nested Ref) may draw from. The
// definitions map is the only scope Ref names resolve against; it is
// always sorted lexicographically by key.
type CompiledSchema struct {
	Root        *Node
	Definitions *StringMap
}
