package jtd

import "fmt"

// ErrorKind identifies which structural rule of RFC 8927 a schema violated.
// See Section 7 of the design: every kind carries enough data in the
// CompileError it's attached to for a human message.
type ErrorKind int

const (
	// NotAnObject: a schema or sub-schema is not a JSON object.
	NotAnObject ErrorKind = iota
	// DefinitionsNotObject: "definitions" is present but not an object.
	DefinitionsNotObject
	// DefinitionsInNonRoot: "definitions" appears in a nested schema.
	DefinitionsInNonRoot
	// MultipleForms: more than one form keyword is present.
	MultipleForms
	// RefNotString: "ref" is present but its value isn't a string.
	RefNotString
	// RefNotFound: "ref" names a definition that doesn't exist.
	RefNotFound
	// TypeNotString: "type" is present but its value isn't a string.
	TypeNotString
	// UnknownType: "type" names an unrecognized keyword.
	UnknownType
	// InvalidEnum: "enum" isn't a non-empty array of strings.
	InvalidEnum
	// EnumDuplicates: "enum" contains a repeated value.
	EnumDuplicates
	// OverlappingProperties: a key appears in both properties and
	// optionalProperties.
	OverlappingProperties
	// DiscriminatorNotString: "discriminator" isn't a string.
	DiscriminatorNotString
	// MissingMapping: a discriminator schema has no "mapping" object.
	MissingMapping
	// MappingNotProperties: a mapping entry isn't a non-nullable Properties
	// form.
	MappingNotProperties
	// TagInVariant: a mapping variant declares the discriminator tag as one
	// of its own properties.
	TagInVariant
)

var errorKindMessages = map[ErrorKind]string{
	NotAnObject:             "schema must be a JSON object",
	DefinitionsNotObject:    "definitions must be a JSON object",
	DefinitionsInNonRoot:    "non-root schema must not have 'definitions'",
	MultipleForms:           "schema has multiple forms",
	RefNotString:            "ref must be a string",
	RefNotFound:             "ref to non-existent definition",
	TypeNotString:           "type must be a string",
	UnknownType:             "unknown type keyword",
	InvalidEnum:             "enum must be a non-empty array of distinct strings",
	EnumDuplicates:          "enum contains duplicate values",
	OverlappingProperties:   "required and optional properties must not overlap",
	DiscriminatorNotString:  "discriminator must be a string",
	MissingMapping:          "discriminator schema must have 'mapping'",
	MappingNotProperties:    "discriminator mapping values must be non-nullable Properties forms",
	TagInVariant:            "discriminator tag must not appear in mapping variant properties",
}

// CompileError is the error type Compile returns. Kind identifies the
// violated rule; Detail, when non-empty, carries the offending name (a
// form list, a ref name, a type string, a property key).
type CompileError struct {
	Kind   ErrorKind
	Detail string
}

func (e *CompileError) Error() string {
	msg := errorKindMessages[e.Kind]
	if e.Detail == "" {
		return fmt.Sprintf("jtd: %s", msg)
	}
	return fmt.Sprintf("jtd: %s: %s", msg, e.Detail)
}

func newCompileError(kind ErrorKind, detail string) *CompileError {
	return &CompileError{Kind: kind, Detail: detail}
}
