package query

import "strings"

// SortField orders results by a view field.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "name,-received_at" style lists. A leading "-"
// sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if name == "" {
			continue
		}

		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// String renders the field back into list form.
func (f SortField) String() string {
	if f.Descending {
		return "-" + f.Field
	}
	return f.Field
}
