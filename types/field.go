package types

// FieldType declares how a field is compared and sorted
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldEnum    FieldType = "enum"

	// FieldList holds nested collections such as discount tiers. List fields
	// can only be exported; they cannot be filtered or sorted on.
	FieldList FieldType = "list"
)

// FieldTypes returns every known field type
func FieldTypes() []FieldType {
	return []FieldType{FieldString, FieldNumber, FieldDate, FieldBoolean, FieldEnum, FieldList}
}

// IsValid checks the type against the known set
func (t FieldType) IsValid() bool {
	for _, known := range FieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsText reports whether values of this type are free text or labels
func (t FieldType) IsText() bool {
	return t == FieldString || t == FieldEnum
}

// FieldDescriptor declares one field a list page can filter, sort, search
// or export on.
type FieldDescriptor struct {
	// Name is the record key; dotted names walk nested objects
	// (e.g. "distributor.businessName")
	Name string    `yaml:"name" json:"name" validate:"required"`
	Type FieldType `yaml:"type" json:"type" validate:"required,oneof=string number date boolean enum list"`

	// Label is the human name used for column headers
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	// Values lists the allowed values of an enum field. Empty means any.
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// Layout is an optional Go time layout tried before the defaults
	// when parsing date values
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// Allows checks a value against the enum values of the descriptor.
// Non-enum fields and enums without values accept anything.
func (d *FieldDescriptor) Allows(value string) bool {
	if d.Type != FieldEnum || len(d.Values) == 0 {
		return true
	}
	for _, v := range d.Values {
		if v == value {
			return true
		}
	}
	return false
}

// FieldSet is an ordered collection of field descriptors
type FieldSet struct {
	fields []FieldDescriptor
	byName map[string]*FieldDescriptor
}

// NewFieldSet creates a field set from a slice of descriptors.
// It does not validate; see internal/validation.
func NewFieldSet(fields []FieldDescriptor) *FieldSet {
	fs := &FieldSet{
		fields: make([]FieldDescriptor, len(fields)),
		byName: make(map[string]*FieldDescriptor, len(fields)),
	}

	copy(fs.fields, fields)

	for i := range fs.fields {
		if _, exists := fs.byName[fs.fields[i].Name]; !exists {
			fs.byName[fs.fields[i].Name] = &fs.fields[i]
		}
	}

	return fs
}

// Get returns a descriptor by name
func (fs *FieldSet) Get(name string) (*FieldDescriptor, bool) {
	if fs == nil {
		return nil, false
	}
	field, exists := fs.byName[name]
	return field, exists
}

// All returns all descriptors in declaration order
func (fs *FieldSet) All() []FieldDescriptor {
	if fs == nil {
		return nil
	}
	return fs.fields
}

// OfType returns the descriptors whose type is one of the given types
func (fs *FieldSet) OfType(types ...FieldType) []FieldDescriptor {
	var result []FieldDescriptor
	for _, field := range fs.All() {
		for _, t := range types {
			if field.Type == t {
				result = append(result, field)
				break
			}
		}
	}
	return result
}

// Names returns field names in declaration order
func (fs *FieldSet) Names() []string {
	names := make([]string, 0, fs.Count())
	for _, field := range fs.All() {
		names = append(names, field.Name)
	}
	return names
}

// Count returns the number of descriptors
func (fs *FieldSet) Count() int {
	if fs == nil {
		return 0
	}
	return len(fs.fields)
}
