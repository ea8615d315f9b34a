package schema

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidSchema marks errors caused by a malformed response model schema.
var ErrInvalidSchema = errors.New("invalid response model schema")

type kind int

const (
	kindAny kind = iota
	kindString
	kindInteger
	kindNumber
	kindBoolean
	kindArray
	kindObject
)

var kindNames = map[string]kind{
	"string":  kindString,
	"integer": kindInteger,
	"number":  kindNumber,
	"boolean": kindBoolean,
	"array":   kindArray,
	"object":  kindObject,
}

var kindLabels = map[kind]string{
	kindAny:     "any",
	kindString:  "string",
	kindInteger: "integer",
	kindNumber:  "number",
	kindBoolean: "boolean",
	kindArray:   "array",
	kindObject:  "object",
}

// property is a compiled schema property, possibly a union of kinds.
type property struct {
	kinds        []kind
	nullable     bool
	required     bool
	hasDefault   bool
	defaultValue any
	description  string
	items        *property
	object       *objectNode
}

// objectNode is a compiled object schema with ordered properties.
type objectNode struct {
	name       string
	order      []string
	properties map[string]*property
}

// Schema is a compiled response model.
type Schema struct {
	root *objectNode
}

// Name returns the schema title, defaulting to "GeneratedModel".
func (s *Schema) Name() string {
	return s.root.name
}

// Compile builds a Schema from a decoded JSON Schema document.
// The root schema must be of type "object".
func Compile(raw any) (*Schema, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: schema must be a JSON object", ErrInvalidSchema)
	}

	if t, _ := m["type"].(string); t != "object" {
		return nil, fmt.Errorf("%w: root schema must be of type 'object'", ErrInvalidSchema)
	}

	root, err := compileObject(m, "GeneratedModel")
	if err != nil {
		return nil, err
	}

	return &Schema{root: root}, nil
}

func compileObject(m map[string]any, fallbackName string) (*objectNode, error) {
	name := fallbackName
	if title, ok := m["title"].(string); ok && title != "" {
		name = title
	}

	node := &objectNode{
		name:       name,
		properties: make(map[string]*property),
	}

	requiredNames := make(map[string]bool)
	if rawRequired, ok := m["required"].([]any); ok {
		for _, entry := range rawRequired {
			if s, ok := entry.(string); ok {
				requiredNames[s] = true
			}
		}
	}

	rawProperties, _ := m["properties"].(map[string]any)
	names := make([]string, 0, len(rawProperties))
	for propName := range rawProperties {
		names = append(names, propName)
	}
	sort.Strings(names)

	for _, propName := range names {
		propSchema, ok := rawProperties[propName].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: property %q must be an object", ErrInvalidSchema, propName)
		}

		prop, err := compileProperty(propSchema, propName)
		if err != nil {
			return nil, err
		}
		prop.required = requiredNames[propName]

		node.order = append(node.order, propName)
		node.properties[propName] = prop
	}

	return node, nil
}

func compileProperty(propSchema map[string]any, propName string) (*property, error) {
	prop := &property{}

	if description, ok := propSchema["description"].(string); ok {
		prop.description = description
	}
	if defaultValue, ok := propSchema["default"]; ok {
		prop.hasDefault = true
		prop.defaultValue = defaultValue
	}

	rawType, exists := propSchema["type"]
	if !exists {
		return prop, nil // no type means any
	}

	switch t := rawType.(type) {
	case string:
		if t == "null" {
			prop.nullable = true
			return prop, nil
		}
		if err := compileKind(prop, propSchema, propName, t); err != nil {
			return nil, err
		}
	case []any:
		// Union type list, possibly containing "null".
		for _, member := range t {
			memberName, ok := member.(string)
			if !ok {
				return nil, fmt.Errorf("%w: property %q has a non-string type entry", ErrInvalidSchema, propName)
			}
			if memberName == "null" {
				prop.nullable = true
				continue
			}
			if err := compileKind(prop, propSchema, propName, memberName); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: property %q has an invalid 'type'", ErrInvalidSchema, propName)
	}

	return prop, nil
}

func compileKind(prop *property, propSchema map[string]any, propName, typeName string) error {
	k, known := kindNames[typeName]
	if !known {
		// Unknown type names degrade to any, matching the permissive converter.
		prop.kinds = nil
		return nil
	}

	switch k {
	case kindArray:
		items, _ := propSchema["items"].(map[string]any)
		if items != nil {
			itemProp, err := compileProperty(items, propName+" items")
			if err != nil {
				return err
			}
			prop.items = itemProp
		}
	case kindObject:
		nested := map[string]any{
			"type":       "object",
			"properties": propSchema["properties"],
			"required":   propSchema["required"],
		}
		if title, ok := propSchema["title"].(string); ok {
			nested["title"] = title
		}
		node, err := compileObject(nested, "NestedModel")
		if err != nil {
			return err
		}
		prop.object = node
	}

	prop.kinds = append(prop.kinds, k)
	return nil
}

// Definition returns the normalized JSON Schema document for the compiled
// model, suitable for provider structured output requests. All properties are
// marked required and additional properties are rejected, per strict mode
// conventions; optional properties are made nullable instead.
func (s *Schema) Definition() map[string]any {
	return s.root.definition()
}

func (n *objectNode) definition() map[string]any {
	properties := make(map[string]any, len(n.order))
	required := make([]any, 0, len(n.order))

	for _, propName := range n.order {
		prop := n.properties[propName]
		properties[propName] = prop.definition(!prop.required)
		required = append(required, propName)
	}

	return map[string]any{
		"type":                 "object",
		"title":                n.name,
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func (p *property) definition(forceNullable bool) map[string]any {
	def := make(map[string]any)

	names := make([]any, 0, len(p.kinds)+1)
	for _, k := range p.kinds {
		names = append(names, kindLabels[k])
	}
	if len(names) > 0 && (p.nullable || forceNullable) {
		names = append(names, "null")
	}

	switch len(names) {
	case 0:
		// any: leave type unconstrained, null included
	case 1:
		def["type"] = names[0]
	default:
		def["type"] = names
	}

	if p.description != "" {
		def["description"] = p.description
	}

	for _, k := range p.kinds {
		switch k {
		case kindArray:
			if p.items != nil {
				def["items"] = p.items.definition(false)
			} else {
				def["items"] = map[string]any{}
			}
		case kindObject:
			if p.object != nil {
				nested := p.object.definition()
				delete(def, "type")
				for key, value := range nested {
					def[key] = value
				}
				if len(names) > 1 {
					def["type"] = names
				}
			}
		}
	}

	return def
}

// Validate checks a decoded JSON value against the schema and returns the
// conforming value. Defaults are applied for absent properties, unknown
// properties are dropped and integral floats are coerced to integers.
func (s *Schema) Validate(value any) (any, error) {
	return s.root.validate(value, s.root.name)
}

func (n *objectNode) validate(value any, path string) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %T", path, value)
	}

	result := make(map[string]any, len(n.order))
	for _, propName := range n.order {
		prop := n.properties[propName]
		propPath := path + "." + propName

		raw, present := m[propName]
		if !present {
			switch {
			case prop.hasDefault:
				result[propName] = prop.defaultValue
			case prop.required:
				return nil, fmt.Errorf("%s: missing required property", propPath)
			default:
				result[propName] = nil
			}
			continue
		}

		validated, err := prop.validate(raw, propPath)
		if err != nil {
			return nil, err
		}
		result[propName] = validated
	}

	return result, nil
}

func (p *property) validate(value any, path string) (any, error) {
	if value == nil {
		if p.nullable || !p.required || len(p.kinds) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: null is not allowed", path)
	}

	if len(p.kinds) == 0 {
		return value, nil // any
	}

	var firstErr error
	for _, k := range p.kinds {
		validated, err := p.validateKind(k, value, path)
		if err == nil {
			return validated, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func (p *property) validateKind(k kind, value any, path string) (any, error) {
	switch k {
	case kindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case kindBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case kindInteger:
		switch v := value.(type) {
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
			return nil, fmt.Errorf("%s: expected an integer, got %v", path, v)
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		}
	case kindNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case kindArray:
		items, ok := value.([]any)
		if !ok {
			break
		}
		if p.items == nil {
			return items, nil
		}
		result := make([]any, len(items))
		for i, item := range items {
			validated, err := p.items.validate(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			result[i] = validated
		}
		return result, nil
	case kindObject:
		if p.object != nil {
			return p.object.validate(value, path)
		}
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%s: expected %s, got %T", path, kindLabels[k], value)
}
