// Package jtdref is a reference validator that walks a compiled jtd.Node
// AST directly, without going through any emitted target language. It
// exists so tests can check that emitted validators agree with the
// compiler's own understanding of a schema's semantics, the way the
// upstream jsontypedef/json-typedef-go package's Validate walked a raw
// jtd.Schema before this repo replaced Schema with the Node AST.
package jtdref

import (
	"errors"
	"math"
	"strconv"
	"time"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// Settings configure Validate's recursion and error-count limits.
type Settings struct {
	// MaxDepth limits ref nesting: at most MaxDepth-1 nested refs are
	// followed, and the next one returns ErrMaxDepthExceeded. Zero disables
	// the limit.
	MaxDepth int

	// MaxErrors is the maximum number of validation errors to collect.
	// Zero disables the limit.
	MaxErrors int
}

// ValidationError is a single validation failure, shaped like the
// instancePath/schemaPath pairs every emitted target produces.
type ValidationError struct {
	InstancePath []string
	SchemaPath   []string
}

// ErrMaxDepthExceeded is returned when too many refs are recursively
// followed while validating.
var ErrMaxDepthExceeded = errors.New("jtdref: max depth exceeded")

var errMaxErrorsReached = errors.New("jtdref internal: max errors reached")

// Validate validates instance against schema's root node, following refs
// into schema.Definitions as needed.
func Validate(schema *jtd.CompiledSchema, instance interface{}, settings Settings) ([]ValidationError, error) {
	state := &validateState{
		schema:       schema,
		settings:     settings,
		instanceToks: []string{},
		schemaToks:   [][]string{{}},
	}

	if err := state.validate(schema.Root, instance, ""); err != nil && err != errMaxErrorsReached {
		return nil, err
	}

	return state.errors, nil
}

type validateState struct {
	schema       *jtd.CompiledSchema
	settings     Settings
	errors       []ValidationError
	instanceToks []string
	schemaToks   [][]string
}

func (s *validateState) validate(node *jtd.Node, instance interface{}, parentTag string) error {
	if node.Form() == jtd.FormNullable {
		if instance == nil {
			return nil
		}
		return s.validate(node.NullableInner(), instance, parentTag)
	}

	switch node.Form() {
	case jtd.FormEmpty:
		return nil

	case jtd.FormRef:
		if s.settings.MaxDepth != 0 && len(s.schemaToks) == s.settings.MaxDepth {
			return ErrMaxDepthExceeded
		}
		def, ok := s.schema.Definitions.Get(node.RefName())
		if !ok {
			return nil
		}
		s.schemaToks = append(s.schemaToks, []string{"definitions", node.RefName()})
		if err := s.validate(def, instance, ""); err != nil {
			return err
		}
		s.schemaToks = s.schemaToks[:len(s.schemaToks)-1]
		return nil

	case jtd.FormType:
		s.pushSchemaToken("type")
		defer s.popSchemaToken()
		return s.validateType(node.TypeKeyword(), instance)

	case jtd.FormEnum:
		s.pushSchemaToken("enum")
		defer s.popSchemaToken()
		str, ok := instance.(string)
		if !ok {
			return s.pushError()
		}
		for _, v := range node.EnumValues() {
			if v == str {
				return nil
			}
		}
		return s.pushError()

	case jtd.FormElements:
		s.pushSchemaToken("elements")
		defer s.popSchemaToken()
		arr, ok := instance.([]interface{})
		if !ok {
			return s.pushError()
		}
		for i, sub := range arr {
			s.pushInstanceToken(strconv.Itoa(i))
			if err := s.validate(node.Inner(), sub, ""); err != nil {
				return err
			}
			s.popInstanceToken()
		}
		return nil

	case jtd.FormValues:
		s.pushSchemaToken("values")
		defer s.popSchemaToken()
		obj, ok := instance.(map[string]interface{})
		if !ok {
			return s.pushError()
		}
		for key, sub := range obj {
			s.pushInstanceToken(key)
			if err := s.validate(node.Inner(), sub, ""); err != nil {
				return err
			}
			s.popInstanceToken()
		}
		return nil

	case jtd.FormProperties:
		return s.validateProperties(node, instance, parentTag)

	case jtd.FormDiscriminator:
		return s.validateDiscriminator(node, instance)
	}

	return nil
}

func (s *validateState) validateType(tk jtd.TypeKeyword, instance interface{}) error {
	switch tk {
	case jtd.TypeBoolean:
		if _, ok := instance.(bool); !ok {
			return s.pushError()
		}
	case jtd.TypeFloat32, jtd.TypeFloat64:
		if _, ok := instance.(float64); !ok {
			return s.pushError()
		}
	case jtd.TypeInt8:
		return s.validateInt(instance, -128, 127)
	case jtd.TypeUint8:
		return s.validateInt(instance, 0, 255)
	case jtd.TypeInt16:
		return s.validateInt(instance, -32768, 32767)
	case jtd.TypeUint16:
		return s.validateInt(instance, 0, 65535)
	case jtd.TypeInt32:
		return s.validateInt(instance, -2147483648, 2147483647)
	case jtd.TypeUint32:
		return s.validateInt(instance, 0, 4294967295)
	case jtd.TypeString:
		if _, ok := instance.(string); !ok {
			return s.pushError()
		}
	case jtd.TypeTimestamp:
		str, ok := instance.(string)
		if !ok {
			return s.pushError()
		}
		// time.Parse rejects second 60, so a leap second is checked as ":59".
		if len(str) >= 19 && str[16:19] == ":60" {
			str = str[:17] + "59" + str[19:]
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return s.pushError()
		}
	}
	return nil
}

func (s *validateState) validateInt(instance interface{}, min, max float64) error {
	n, ok := instance.(float64)
	if !ok {
		return s.pushError()
	}
	if i, f := math.Modf(n); f != 0.0 || i < min || i > max {
		return s.pushError()
	}
	return nil
}

func (s *validateState) validateProperties(node *jtd.Node, instance interface{}, parentTag string) error {
	obj, ok := instance.(map[string]interface{})
	if !ok {
		if node.Required().Len() > 0 {
			s.pushSchemaToken("properties")
		} else {
			s.pushSchemaToken("optionalProperties")
		}
		err := s.pushError()
		s.popSchemaToken()
		return err
	}

	s.pushSchemaToken("properties")
	for pair := node.Required().Oldest(); pair != nil; pair = pair.Next() {
		s.pushSchemaToken(pair.Key)
		if sub, ok := obj[pair.Key]; ok {
			s.pushInstanceToken(pair.Key)
			if err := s.validate(pair.Value, sub, ""); err != nil {
				s.popSchemaToken()
				return err
			}
			s.popInstanceToken()
		} else if err := s.pushError(); err != nil {
			s.popSchemaToken()
			return err
		}
		s.popSchemaToken()
	}
	s.popSchemaToken()

	s.pushSchemaToken("optionalProperties")
	for pair := node.Optional().Oldest(); pair != nil; pair = pair.Next() {
		s.pushSchemaToken(pair.Key)
		if sub, ok := obj[pair.Key]; ok {
			s.pushInstanceToken(pair.Key)
			if err := s.validate(pair.Value, sub, ""); err != nil {
				s.popSchemaToken()
				return err
			}
			s.popInstanceToken()
		}
		s.popSchemaToken()
	}
	s.popSchemaToken()

	if !node.AdditionalProperties() {
		guardTok := "optionalProperties"
		if node.Required().Len() > 0 {
			guardTok = "properties"
		}
		s.pushSchemaToken(guardTok)
		for key := range obj {
			if parentTag != "" && key == parentTag {
				continue
			}
			_, reqOk := node.Required().Get(key)
			_, optOk := node.Optional().Get(key)
			if !reqOk && !optOk {
				s.pushInstanceToken(key)
				err := s.pushError()
				s.popInstanceToken()
				if err != nil {
					s.popSchemaToken()
					return err
				}
			}
		}
		s.popSchemaToken()
	}

	return nil
}

func (s *validateState) validateDiscriminator(node *jtd.Node, instance interface{}) error {
	obj, ok := instance.(map[string]interface{})
	if !ok {
		s.pushSchemaToken("discriminator")
		err := s.pushError()
		s.popSchemaToken()
		return err
	}

	tag := node.DiscriminatorTag()
	tagVal, ok := obj[tag]
	if !ok {
		s.pushSchemaToken("discriminator")
		err := s.pushError()
		s.popSchemaToken()
		return err
	}

	tagStr, ok := tagVal.(string)
	if !ok {
		s.pushSchemaToken("discriminator")
		s.pushInstanceToken(tag)
		err := s.pushError()
		s.popInstanceToken()
		s.popSchemaToken()
		return err
	}

	variant, ok := node.Mapping().Get(tagStr)
	if !ok {
		s.pushSchemaToken("mapping")
		s.pushInstanceToken(tag)
		err := s.pushError()
		s.popInstanceToken()
		s.popSchemaToken()
		return err
	}

	s.pushSchemaToken("mapping")
	s.pushSchemaToken(tagStr)
	err := s.validate(variant, instance, tag)
	s.popSchemaToken()
	s.popSchemaToken()
	return err
}

func (s *validateState) pushInstanceToken(token string) {
	s.instanceToks = append(s.instanceToks, token)
}

func (s *validateState) popInstanceToken() {
	s.instanceToks = s.instanceToks[:len(s.instanceToks)-1]
}

func (s *validateState) pushSchemaToken(token string) {
	last := len(s.schemaToks) - 1
	s.schemaToks[last] = append(s.schemaToks[last], token)
}

func (s *validateState) popSchemaToken() {
	last := len(s.schemaToks) - 1
	toks := s.schemaToks[last]
	s.schemaToks[last] = toks[:len(toks)-1]
}

func (s *validateState) pushError() error {
	instanceToks := make([]string, len(s.instanceToks))
	copy(instanceToks, s.instanceToks)

	schemaToks := make([]string, len(s.schemaToks[len(s.schemaToks)-1]))
	copy(schemaToks, s.schemaToks[len(s.schemaToks)-1])

	s.errors = append(s.errors, ValidationError{
		InstancePath: instanceToks,
		SchemaPath:   schemaToks,
	})

	if s.settings.MaxErrors != 0 && len(s.errors) == s.settings.MaxErrors {
		return errMaxErrorsReached
	}

	return nil
}
