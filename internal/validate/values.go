package validate

// Values holds normalized, typed field values produced by a successful
// validation. Handlers read from Values instead of raw request input.
type Values map[string]any

// String returns the named string value, or "" if absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// OptString returns a pointer to the named string value, or nil if absent.
func (v Values) OptString(name string) *string {
	if s, ok := v[name].(string); ok {
		return &s
	}
	return nil
}

// Int returns the named integer value, or 0 if absent.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

// OptInt returns a pointer to the named integer value, or nil if absent.
func (v Values) OptInt(name string) *int64 {
	if n, ok := v[name].(int64); ok {
		return &n
	}
	return nil
}

// Bool returns the named boolean value, or false if absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// OptBool returns a pointer to the named boolean value, or nil if absent.
func (v Values) OptBool(name string) *bool {
	if b, ok := v[name].(bool); ok {
		return &b
	}
	return nil
}

// Has reports whether the named field was present in the validated input.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}
