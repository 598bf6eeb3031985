package schema

// Kind enumerates the input kinds a form field can take.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindBoolean  Kind = "boolean"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
)

// Field describes one column/input of an entity.
type Field struct {
	Key        string
	Label      string
	Kind       Kind
	Required   bool
	Min        *float64
	Max        *float64
	Options    []string
	Searchable bool
	Filterable bool
	// OmitZero drops empty numeric input from the collected draft instead of
	// coercing it to 0.
	OmitZero bool
}

// Schema binds an entity name to its REST endpoint and ordered field list.
type Schema struct {
	Name         string
	EndpointBase string
	Fields       []Field
}

// Field returns the field with the given key, if present.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// SearchableKeys lists the keys free-text search matches against.
func (s Schema) SearchableKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Searchable {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// FilterableFields lists the fields exposed as dropdown filters.
func (s Schema) FilterableFields() []Field {
	fields := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Filterable {
			fields = append(fields, f)
		}
	}
	return fields
}

func floatPtr(v float64) *float64 { return &v }
