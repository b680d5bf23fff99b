package store

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"

	entschema "github.com/abhisek/scenelingo/ent/schema"
)

type entSchema interface {
	Fields() []ent.Field
	Mixin() []ent.Mixin
	Annotations() []schema.Annotation
}

func declaredTable(s entSchema) string {
	for _, a := range s.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok {
			return ann.Table
		}
	}
	return ""
}

func declaredColumns(s entSchema) []string {
	var cols []string
	for _, m := range s.Mixin() {
		for _, f := range m.Fields() {
			cols = append(cols, f.Descriptor().Name)
		}
	}
	for _, f := range s.Fields() {
		cols = append(cols, f.Descriptor().Name)
	}
	sort.Strings(cols)
	return cols
}

// tableColumns lists the columns of table, without the id primary key.
func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("table_info(%s): %v", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if name != "id" {
			cols = append(cols, name)
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	sort.Strings(cols)
	return cols
}

func TestSchemaMatchesEntDeclarations(t *testing.T) {
	s := openTestStore(t)

	for _, decl := range []entSchema{
		entschema.KV{},
		entschema.LLMRequestEvent{},
		entschema.SessionEvent{},
	} {
		table := declaredTable(decl)
		if table == "" {
			t.Fatalf("%T has no table annotation", decl)
		}
		want := declaredColumns(decl)
		got := tableColumns(t, s.DB(), table)
		if !slices.Equal(got, want) {
			t.Errorf("%s columns = %v, ent schema declares %v", table, got, want)
		}
	}
}
