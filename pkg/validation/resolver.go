package validation

import (
	"fmt"

	"mercator-hq/vendorgate/pkg/rules"
)

// Namespace returns the field namespace of a document: its "fields" object
// when the key is present, otherwise the document itself. A nil document
// yields an empty namespace. A "fields" value that is not an object is an
// error.
func Namespace(doc map[string]any) (map[string]any, error) {
	if doc == nil {
		return map[string]any{}, nil
	}
	raw, ok := doc["fields"]
	if !ok {
		return doc, nil
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document fields must be an object, got %s", jsonKind(raw))
	}
	return fields, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}

// Document returns the document registered for docType, or an empty one.
func (d Documents) Document(docType string) map[string]any {
	if doc, ok := d[docType]; ok && doc != nil {
		return doc
	}
	return map[string]any{}
}

// Resolve returns the raw value referenced by ref and a readable path for
// messages. A missing value is returned as nil without error. A document
// reference without a document type is a *ConfigError; a document whose
// "fields" value is not an object is a plain error.
func Resolve(ref rules.FieldRef, portal map[string]any, docs Documents) (any, string, error) {
	switch ref.Source {
	case rules.SourcePortal:
		return portal[ref.Field], "portal." + ref.Field, nil
	case rules.SourceDoc:
		if ref.DocType == "" {
			return nil, "", &ConfigError{Message: "doc_type is required for doc source"}
		}
		path := ref.DocType + "." + ref.Field
		ns, err := Namespace(docs.Document(ref.DocType))
		if err != nil {
			return nil, path, fmt.Errorf("%s: %w", ref.DocType, err)
		}
		return ns[ref.Field], path, nil
	default:
		return nil, "", &ConfigError{Message: fmt.Sprintf("unknown source %q", ref.Source)}
	}
}
