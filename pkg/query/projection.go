// Package query builds parameterised PostgreSQL SELECT statements from a
// projection of view field names onto table columns.
package query

import "strings"

// ProjectionMap maps view field names onto aliased table columns.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	index   map[string]string
}

// NewProjectionMap starts a projection for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		index:  make(map[string]string),
	}
}

// Project adds column under the view name. Columns are selected in the order projected.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns = append(p.columns, qualified)
	p.index[view] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM clause target, for example "public.jobs j".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column returns the qualified column for view, or view itself when unknown.
func (p *ProjectionMap) Column(view string) string {
	if col, ok := p.index[view]; ok {
		return col
	}
	return view
}

// Has reports whether view has been projected.
func (p *ProjectionMap) Has(view string) bool {
	_, ok := p.index[view]
	return ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the qualified columns.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}
