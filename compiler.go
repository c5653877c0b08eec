package jtd

import "sort"

// Compile parses and validates a JTD JSON schema (already decoded into Go's
// generic JSON representation -- map[string]interface{}, []interface{},
// string, float64, bool, or nil) into a CompiledSchema, enforcing every
// structural invariant of RFC 8927 Section 2. It returns a *CompileError on
// any violation; see Section 7 of the design for the taxonomy.
//
// Mirrors jtd-wasm's compiler.rs compile/compile_node split: definitions are
// resolved in two passes (register placeholders, then compile bodies) so
// that a Ref appearing anywhere may validate against a definition declared
// later in the source text.
func Compile(schema interface{}) (*CompiledSchema, error) {
	obj, ok := schema.(map[string]interface{})
	if !ok {
		return nil, newCompileError(NotAnObject, "")
	}

	definitions := NewStringMap()
	var defKeys []string

	if defsVal, present := obj["definitions"]; present {
		defsObj, ok := defsVal.(map[string]interface{})
		if !ok {
			return nil, newCompileError(DefinitionsNotObject, "")
		}
		for key := range defsObj {
			defKeys = append(defKeys, key)
		}
		sort.Strings(defKeys)
		for _, key := range defKeys {
			definitions.Set(key, newEmpty())
		}
		for _, key := range defKeys {
			node, err := compileNode(defsObj[key], false, definitions)
			if err != nil {
				return nil, err
			}
			definitions.Set(key, node)
		}
	}

	root, err := compileNode(schema, true, definitions)
	if err != nil {
		return nil, err
	}

	return &CompiledSchema{Root: root, Definitions: definitions}, nil
}

// formKeywords, in detection order, mirrors compiler.rs's forms Vec. The
// pair (properties, optionalProperties) collapses into the single form
// name "properties".
var formKeywords = []string{"ref", "type", "enum", "elements", "values", "discriminator"}

func compileNode(raw interface{}, isRoot bool, definitions *StringMap) (*Node, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, newCompileError(NotAnObject, "")
	}

	if !isRoot {
		if _, present := obj["definitions"]; present {
			return nil, newCompileError(DefinitionsInNonRoot, "")
		}
	}

	var present []string
	for _, kw := range formKeywords {
		if _, ok := obj[kw]; ok {
			present = append(present, kw)
		}
	}
	_, hasProps := obj["properties"]
	_, hasOptProps := obj["optionalProperties"]
	if hasProps || hasOptProps {
		present = append(present, "properties")
	}

	if len(present) > 1 {
		return nil, newCompileError(MultipleForms, joinStrings(present))
	}

	var node *Node
	var err error
	switch {
	case len(present) == 0:
		node = newEmpty()
	case present[0] == "ref":
		node, err = compileRef(obj, definitions)
	case present[0] == "type":
		node, err = compileType(obj)
	case present[0] == "enum":
		node, err = compileEnum(obj)
	case present[0] == "elements":
		node, err = compileElements(obj, definitions)
	case present[0] == "values":
		node, err = compileValues(obj, definitions)
	case present[0] == "discriminator":
		node, err = compileDiscriminator(obj, definitions)
	case present[0] == "properties":
		node, err = compileProperties(obj, definitions)
	}
	if err != nil {
		return nil, err
	}

	if nullable, _ := obj["nullable"].(bool); nullable {
		node = newNullable(node)
	}

	return node, nil
}

func compileRef(obj map[string]interface{}, definitions *StringMap) (*Node, error) {
	name, ok := obj["ref"].(string)
	if !ok {
		return nil, newCompileError(RefNotString, "")
	}
	if _, found := definitions.Get(name); !found {
		return nil, newCompileError(RefNotFound, name)
	}
	return newRef(name), nil
}

func compileType(obj map[string]interface{}) (*Node, error) {
	s, ok := obj["type"].(string)
	if !ok {
		return nil, newCompileError(TypeNotString, "")
	}
	tk, ok := ParseTypeKeyword(s)
	if !ok {
		return nil, newCompileError(UnknownType, s)
	}
	return newType(tk), nil
}

func compileEnum(obj map[string]interface{}) (*Node, error) {
	arr, ok := obj["enum"].([]interface{})
	if !ok || len(arr) == 0 {
		return nil, newCompileError(InvalidEnum, "")
	}
	seen := make(map[string]bool, len(arr))
	values := make([]string, 0, len(arr))
	for _, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, newCompileError(InvalidEnum, "")
		}
		if seen[s] {
			return nil, newCompileError(EnumDuplicates, s)
		}
		seen[s] = true
		values = append(values, s)
	}
	return newEnum(values), nil
}

func compileElements(obj map[string]interface{}, definitions *StringMap) (*Node, error) {
	inner, err := compileNode(obj["elements"], false, definitions)
	if err != nil {
		return nil, err
	}
	return newElements(inner), nil
}

func compileValues(obj map[string]interface{}, definitions *StringMap) (*Node, error) {
	inner, err := compileNode(obj["values"], false, definitions)
	if err != nil {
		return nil, err
	}
	return newValues(inner), nil
}

func compileProperties(obj map[string]interface{}, definitions *StringMap) (*Node, error) {
	required := NewStringMap()
	optional := NewStringMap()

	if propsVal, present := obj["properties"]; present {
		propsObj, ok := propsVal.(map[string]interface{})
		if !ok {
			return nil, newCompileError(NotAnObject, "")
		}
		keys := sortedKeys(propsObj)
		for _, key := range keys {
			node, err := compileNode(propsObj[key], false, definitions)
			if err != nil {
				return nil, err
			}
			required.Set(key, node)
		}
	}

	if optVal, present := obj["optionalProperties"]; present {
		optObj, ok := optVal.(map[string]interface{})
		if !ok {
			return nil, newCompileError(NotAnObject, "")
		}
		keys := sortedKeys(optObj)
		for _, key := range keys {
			if _, overlap := required.Get(key); overlap {
				return nil, newCompileError(OverlappingProperties, key)
			}
			node, err := compileNode(optObj[key], false, definitions)
			if err != nil {
				return nil, err
			}
			optional.Set(key, node)
		}
	}

	additional, _ := obj["additionalProperties"].(bool)

	return newProperties(required, optional, additional), nil
}

func compileDiscriminator(obj map[string]interface{}, definitions *StringMap) (*Node, error) {
	tag, ok := obj["discriminator"].(string)
	if !ok {
		return nil, newCompileError(DiscriminatorNotString, "")
	}

	mappingVal, present := obj["mapping"]
	if !present {
		return nil, newCompileError(MissingMapping, "")
	}
	mappingObj, ok := mappingVal.(map[string]interface{})
	if !ok {
		return nil, newCompileError(MissingMapping, "")
	}

	mapping := NewStringMap()
	keys := sortedKeys(mappingObj)
	for _, key := range keys {
		node, err := compileNode(mappingObj[key], false, definitions)
		if err != nil {
			return nil, err
		}
		if node.Form() != FormProperties {
			return nil, newCompileError(MappingNotProperties, key)
		}
		if _, has := node.Required().Get(tag); has {
			return nil, newCompileError(TagInVariant, tag)
		}
		if _, has := node.Optional().Get(tag); has {
			return nil, newCompileError(TagInVariant, tag)
		}
		mapping.Set(key, node)
	}

	return newDiscriminator(tag, mapping), nil
}

func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
