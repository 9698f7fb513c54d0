package models

// FieldErrors collects per-field validation messages for the response
// envelope's "errors" key.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}
