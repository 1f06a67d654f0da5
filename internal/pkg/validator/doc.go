// Package validator checks request and message structs.
//
// The go-playground/validator v10 implementation returns field errors keyed
// by snake_case field name, which the router renders as one
// VALIDATION_FAILED entry per field.
package validator
