package sema

import "github.com/google/jsonschema-go/jsonschema"

// ToJSONSchema projects a resolved schema's attribute types into a
// *jsonschema.Schema object shape, the way MacroPower-x's magicschema
// generator walks a YAML document into a Schema tree — here the walk
// starts from an already-resolved SchemaType instead of a parsed document.
// The `vet` subcommand prints this projection for each resolved schema; no
// comparison with an external JSON Schema file is made.
func ToJSONSchema(s *SchemaType) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema),
	}
	for base := s; base != nil; base = base.Base {
		for name, attr := range base.Attrs {
			if _, ok := out.Properties[name]; ok {
				continue
			}
			out.Properties[name] = typeToSchema(attr.Ty)
			if !attr.Optional {
				out.Required = append(out.Required, name)
			}
		}
	}
	return out
}

func typeToSchema(t *Type) *jsonschema.Schema {
	if t == nil {
		return &jsonschema.Schema{}
	}
	switch BaseOf(t).Kind {
	case KBool:
		return &jsonschema.Schema{Type: "boolean"}
	case KInt:
		return &jsonschema.Schema{Type: "integer"}
	case KFloat:
		return &jsonschema.Schema{Type: "number"}
	case KStr:
		return &jsonschema.Schema{Type: "string"}
	case KNone:
		return &jsonschema.Schema{Type: "null"}
	case KList:
		return &jsonschema.Schema{Type: "array", Items: typeToSchema(t.Elem)}
	case KDict:
		return &jsonschema.Schema{Type: "object"}
	case KSchema:
		return ToJSONSchema(t.Schema)
	default:
		return &jsonschema.Schema{}
	}
}
