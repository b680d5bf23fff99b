package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// KV holds opaque values by key, such as the learner's stats record.
type KV struct {
	ent.Schema
}

func (KV) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "kv"}}
}

func (KV) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			Unique().
			Immutable(),
		field.Bytes("value"),
		field.Int64("updated_at").
			Comment("Unix milliseconds of the last write"),
	}
}
