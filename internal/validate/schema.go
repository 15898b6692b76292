// Package validate implements declarative request validation. Field
// constraints are declared once as data; create/update/detail variants are
// derived from the same declaration with Partial, Pick and Omit, so a
// constraint is never written twice. Schemas are built at startup and are
// immutable afterwards.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Kind is the expected type of a field value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// Issue codes. Type-shape failures and range failures carry distinct codes
// so callers can tell "not a number" from "not positive".
const (
	CodeRequired    = "required"
	CodeType        = "type"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodePattern     = "pattern"
	CodeEnum        = "enum"
	CodeNotPositive = "not_positive"
)

// Field declares the constraint set for one input field.
// String values are trimmed before length, pattern and enum checks.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	MinLen   int
	MaxLen   int
	Pattern  *regexp.Regexp
	Enum     []string
	Positive bool
}

// Issue is one violated constraint.
type Issue struct {
	Path    string
	Message string
	Code    string
}

// Result is the outcome of validating one input surface.
// When OK is true, Value holds the normalized, typed values and Issues is
// empty; when OK is false, Value is nil.
type Result struct {
	OK     bool
	Value  Values
	Issues []Issue
}

// Err converts a failed Result into a *domain.ValidationError, preserving
// issue order. Returns nil for a successful Result.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	errs := make([]domain.FieldError, 0, len(r.Issues))
	for _, is := range r.Issues {
		errs = append(errs, domain.FieldError{Field: is.Path, Message: is.Message})
	}
	return &domain.ValidationError{Errors: errs}
}

// Schema is an immutable, ordered set of field declarations.
type Schema struct {
	fields []Field
}

// New builds a Schema. Field order is preserved and determines issue order.
func New(fields ...Field) *Schema {
	return &Schema{fields: slices.Clone(fields)}
}

// Partial derives a schema with every field optional. Fields that are
// present are still validated with the full constraint set.
func (s *Schema) Partial() *Schema {
	fields := slices.Clone(s.fields)
	for i := range fields {
		fields[i].Required = false
	}
	return &Schema{fields: fields}
}

// Pick derives a schema containing only the named fields.
func (s *Schema) Pick(names ...string) *Schema {
	var fields []Field
	for _, f := range s.fields {
		if slices.Contains(names, f.Name) {
			fields = append(fields, f)
		}
	}
	return &Schema{fields: fields}
}

// Omit derives a schema without the named fields.
func (s *Schema) Omit(names ...string) *Schema {
	var fields []Field
	for _, f := range s.fields {
		if !slices.Contains(names, f.Name) {
			fields = append(fields, f)
		}
	}
	return &Schema{fields: fields}
}

// Validate checks input against the schema. Every violated constraint is
// reported, in declaration order; a single field can contribute several
// issues (e.g. both a length and a pattern failure).
func (s *Schema) Validate(input map[string]any) Result {
	var issues []Issue
	value := make(Values, len(s.fields))

	for _, f := range s.fields {
		raw, present := input[f.Name]
		if !present || raw == nil {
			if f.Required {
				issues = append(issues, Issue{Path: f.Name, Message: "required", Code: CodeRequired})
			}
			continue
		}

		switch f.Kind {
		case KindString:
			issues = validateString(f, raw, value, issues)
		case KindInt:
			issues = validateInt(f, raw, value, issues)
		case KindBool:
			issues = validateBool(f, raw, value, issues)
		}
	}

	if len(issues) > 0 {
		return Result{OK: false, Issues: issues}
	}
	return Result{OK: true, Value: value}
}

func validateString(f Field, raw any, value Values, issues []Issue) []Issue {
	s, ok := raw.(string)
	if !ok {
		return append(issues, Issue{Path: f.Name, Message: "must be a string", Code: CodeType})
	}

	s = strings.TrimSpace(s)
	failed := false

	if f.Required && s == "" {
		return append(issues, Issue{Path: f.Name, Message: "required", Code: CodeRequired})
	}

	if f.MinLen > 0 && len(s) < f.MinLen {
		issues = append(issues, Issue{
			Path:    f.Name,
			Message: fmt.Sprintf("must be at least %d characters", f.MinLen),
			Code:    CodeTooShort,
		})
		failed = true
	}
	if f.MaxLen > 0 && len(s) > f.MaxLen {
		issues = append(issues, Issue{
			Path:    f.Name,
			Message: fmt.Sprintf("must be at most %d characters", f.MaxLen),
			Code:    CodeTooLong,
		})
		failed = true
	}
	if f.Pattern != nil && !f.Pattern.MatchString(s) {
		issues = append(issues, Issue{Path: f.Name, Message: "has invalid format", Code: CodePattern})
		failed = true
	}
	if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
		issues = append(issues, Issue{
			Path:    f.Name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", ")),
			Code:    CodeEnum,
		})
		failed = true
	}

	if !failed {
		value[f.Name] = s
	}
	return issues
}

func validateInt(f Field, raw any, value Values, issues []Issue) []Issue {
	n, ok := toInt64(raw)
	if !ok {
		return append(issues, Issue{Path: f.Name, Message: "must be an integer", Code: CodeType})
	}

	if f.Positive && n <= 0 {
		return append(issues, Issue{Path: f.Name, Message: "must be a positive integer", Code: CodeNotPositive})
	}

	value[f.Name] = n
	return issues
}

func validateBool(f Field, raw any, value Values, issues []Issue) []Issue {
	switch v := raw.(type) {
	case bool:
		value[f.Name] = v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return append(issues, Issue{Path: f.Name, Message: "must be a boolean", Code: CodeType})
		}
		value[f.Name] = b
	default:
		return append(issues, Issue{Path: f.Name, Message: "must be a boolean", Code: CodeType})
	}
	return issues
}

// toInt64 accepts the representations an integer can arrive in: JSON numbers
// decode as float64, query and path parameters as strings.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
