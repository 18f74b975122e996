package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/web-source-dev/dealboard/types"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	// Report yaml names (pageSize) instead of Go names (PageSize)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	_ = validate.RegisterTranslation("gt", trans, func(ut ut.Translator) error {
		return ut.Add("gt", "{0} must be greater than {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("gt", fe.Field(), fe.Param())
		return t
	})
}

// Struct validates the tags of a configuration struct and converts the
// first failure into a ConfigError for the given component
func Struct(component string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &types.ConfigError{Component: component, Err: err}
	}

	fe := validationErrors[0]
	return &types.ConfigError{
		Component: component,
		Field:     fe.Field(),
		Msg:       fe.Translate(trans),
		Err:       err,
	}
}

// ValidateFields checks a field set for consistency
func ValidateFields(fs *types.FieldSet) error {
	if fs.Count() == 0 {
		return types.NewConfigError("field", "", "at least one field must be declared")
	}

	seen := make(map[string]bool)
	for _, field := range fs.All() {
		if err := Struct("field", field); err != nil {
			return err
		}
		if seen[field.Name] {
			return types.NewConfigError("field", field.Name, "duplicate field name")
		}
		seen[field.Name] = true

		if err := validateFieldShape(field); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldShape checks settings that only apply to some field types
func validateFieldShape(field types.FieldDescriptor) error {
	if len(field.Values) > 0 && field.Type != types.FieldEnum {
		return types.NewConfigError("field", field.Name, "values are only allowed on enum fields")
	}
	if field.Layout != "" && field.Type != types.FieldDate {
		return types.NewConfigError("field", field.Name, "layout is only allowed on date fields")
	}

	valuesSeen := make(map[string]bool)
	for _, value := range field.Values {
		if value == "" {
			return types.NewConfigError("field", field.Name, "enum values cannot be empty")
		}
		if valuesSeen[value] {
			return types.NewConfigError("field", field.Name, "duplicate enum value %q", value)
		}
		valuesSeen[value] = true
	}

	return nil
}

// ValidateConfig checks a query configuration against the declared fields.
// Inactive filter clauses are checked too: a clause naming an undeclared
// field is a schema mistake whether or not the user has typed a value yet.
func ValidateConfig(cfg types.QueryConfiguration, fs *types.FieldSet) error {
	if err := ValidatePagination(cfg.Pagination); err != nil {
		return err
	}
	if err := Struct("query", cfg); err != nil {
		return err
	}

	for _, clause := range cfg.Filters {
		// operators are resolved against registered predicates at compile time
		if _, err := RequireField(fs, "filter", clause.Field); err != nil {
			return err
		}
	}

	if cfg.Sort != nil {
		if err := ValidateSort(*cfg.Sort, fs); err != nil {
			return err
		}
	}

	for _, name := range cfg.Search.Fields {
		field, err := RequireField(fs, "search", name)
		if err != nil {
			return err
		}
		if !field.Type.IsText() {
			return types.NewConfigError("search", name, "only string and enum fields can be searched, field is %s", field.Type)
		}
	}

	return nil
}

// ValidateSort checks a sort spec against the declared fields
func ValidateSort(sort types.SortSpec, fs *types.FieldSet) error {
	if err := Struct("sort", sort); err != nil {
		return err
	}
	field, err := RequireField(fs, "sort", sort.Field)
	if err != nil {
		return err
	}
	if field.Type == types.FieldList {
		return types.NewConfigError("sort", sort.Field, "list fields cannot be sorted")
	}
	return nil
}

// ValidatePagination rejects negative page indexes and non-positive sizes
func ValidatePagination(p types.PaginationSpec) error {
	if err := Struct("pagination", p); err != nil {
		return err
	}
	return nil
}

// RequireField looks a field up and reports an undeclared one as a
// configuration error of the given component
func RequireField(fs *types.FieldSet, component, name string) (*types.FieldDescriptor, error) {
	if name == "" {
		return nil, types.NewConfigError(component, "", "field name is required")
	}
	field, ok := fs.Get(name)
	if !ok {
		return nil, types.NewConfigError(component, name, "field is not declared (declared: %s)", strings.Join(fs.Names(), ", "))
	}
	return field, nil
}
