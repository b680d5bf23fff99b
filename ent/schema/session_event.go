package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records flashcard session lifecycle events.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "session_events"}}
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("scene_id").
			NotEmpty(),
		field.Enum("action").
			Values("start", "complete", "cancel"),
		field.String("day").
			Comment("Learner's local calendar day, YYYY-MM-DD"),
		field.Int("words").
			Default(0).
			Comment("Cards in the session; credited words on complete"),
		field.Int("points").
			Default(0),
		field.Bool("fallback").
			Default(false).
			Comment("Session ran on the placeholder card"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("day"),
	}
}
