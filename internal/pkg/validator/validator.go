package validator

// Validator validates structs and single values.
type Validator interface {
	// Validate checks struct tags on data.
	Validate(data any) error
	// Var checks a single value against a tag expression such as "email".
	Var(value any, tag string) error
}
