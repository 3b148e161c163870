package jsondoc

// FieldTypeString is the only field type ExtractFields emits.
const FieldTypeString = "string"

// Field is a string leaf of a document together with its path.
type Field struct {
	Path  string `json:"path"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ExtractFields walks v depth-first in pre-order and returns one Field per
// string leaf. Object members are visited in document order and array
// items by increasing index. Numbers, booleans and nulls are skipped.
func ExtractFields(v *Value) []Field {
	var fields []Field
	walkStrings(v, "", func(path, s string) {
		fields = append(fields, Field{Path: path, Value: s, Type: FieldTypeString})
	})
	return fields
}

func walkStrings(v *Value, path string, emit func(path, s string)) {
	if v == nil {
		return
	}
	switch v.Kind {
	case Object:
		for _, m := range v.Members {
			walkStrings(m.Value, childKeyPath(path, m.Key), emit)
		}
	case Array:
		for i, item := range v.Items {
			walkStrings(item, childIndexPath(path, i), emit)
		}
	case String:
		emit(path, v.Str)
	}
}

// FieldMap indexes fields by path.
func FieldMap(fields []Field) map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Path] = f
	}
	return m
}
