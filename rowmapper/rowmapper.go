// Package rowmapper converts database/sql rows into either a generic
// column-name map or a caller-supplied struct slice. It is the one place
// in this module that uses reflection: everywhere else a finite type
// switch is enough (engine.Of), but a struct destination's field set is
// only known at the caller's compile time, not the mapper's, so there is
// no way around it here.
package rowmapper

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// MapRow is the generic, column-name-keyed row shape (grounded on the
// vippsas/sqlcode sqltest package's query-dump helper).
type MapRow = map[string]interface{}

// ScanRows drains rows into a slice of MapRow, one entry per result row.
func ScanRows(rows *sql.Rows) ([]MapRow, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []MapRow
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(MapRow, len(cols))
		for i, c := range cols {
			row[c] = normalizeDriverValue(vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeDriverValue unwraps the []byte a database/sql driver commonly
// returns for TEXT/VARCHAR columns into a plain string, so a MapRow
// behaves the same across sqlite, mysql, postgresql and oracle drivers.
func normalizeDriverValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// ScanStruct drains rows into a newly allocated slice of the struct type
// pointed to by dest's element type (dest must be a *[]T for some struct
// T). A field's column is chosen, in order: its `db:"name"` tag; its
// lower_snake_case name; its verbatim name.
func ScanStruct(rows *sql.Rows, dest interface{}) error {
	sliceVal := reflect.ValueOf(dest)
	if sliceVal.Kind() != reflect.Ptr || sliceVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("rowmapper: dest must be a pointer to a slice, got %T", dest)
	}
	elemType := sliceVal.Elem().Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("rowmapper: slice element must be a struct, got %s", elemType.Kind())
	}

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	fieldByColumn := indexFields(elemType)

	out := reflect.MakeSlice(sliceVal.Elem().Type(), 0, 0)
	for rows.Next() {
		rowPtr := reflect.New(elemType)
		scanTargets := make([]interface{}, len(cols))
		for i, c := range cols {
			if fi, ok := fieldByColumn[strings.ToLower(c)]; ok {
				scanTargets[i] = rowPtr.Elem().Field(fi).Addr().Interface()
			} else {
				var discard interface{}
				scanTargets[i] = &discard
			}
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return err
		}
		out = reflect.Append(out, rowPtr.Elem())
	}
	sliceVal.Elem().Set(out)
	return rows.Err()
}

func indexFields(t reflect.Type) map[string]int {
	byColumn := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		if tag, ok := f.Tag.Lookup("db"); ok && tag != "" && tag != "-" {
			byColumn[strings.ToLower(tag)] = i
			continue
		}
		byColumn[strings.ToLower(toSnakeCase(f.Name))] = i
		byColumn[strings.ToLower(f.Name)] = i
	}
	return byColumn
}

func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
