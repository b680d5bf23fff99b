package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const sessionEventsTable = "session_events"

var sessionEventColumns = []string{
	"id", "created_at", "session_id", "scene_id", "action",
	"day", "words", "points", "fallback",
}

type sessionEventRow struct {
	ID        int    `db:"id"`
	CreatedAt int64  `db:"created_at"`
	SessionID string `db:"session_id"`
	SceneID   string `db:"scene_id"`
	Action    string `db:"action"`
	Day       string `db:"day"`
	Words     int    `db:"words"`
	Points    int    `db:"points"`
	Fallback  bool   `db:"fallback"`
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionEventsTable).
		Columns(sessionEventColumns[1:]...).
		Values(
			time.Now().UnixMilli(),
			data.SessionID,
			data.SceneID,
			data.Action,
			data.Day,
			data.Words,
			data.Points,
			data.Fallback,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable))
	query, args := applyOpts(sel, opts).Query()

	var rows []sessionEventRow
	if err := r.dbx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	out := make([]SessionEvent, len(rows))
	for i, row := range rows {
		out[i] = SessionEvent{
			ID:        row.ID,
			Timestamp: fromMillis(row.CreatedAt),
			SessionEventData: SessionEventData{
				SessionID: row.SessionID,
				SceneID:   row.SceneID,
				Action:    row.Action,
				Day:       row.Day,
				Words:     row.Words,
				Points:    row.Points,
				Fallback:  row.Fallback,
			},
		}
	}
	return out, nil
}

func (r *eventRepo) WordsByDay(ctx context.Context, from, to string) ([]DayActivity, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("day", entsql.As(entsql.Sum("words"), "words")).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.And(
			entsql.EQ("action", SessionActionComplete),
			entsql.GTE("day", from),
			entsql.LTE("day", to),
		)).
		GroupBy("day").
		OrderBy("day").
		Query()

	var out []DayActivity
	if err := r.dbx.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("words by day: %w", err)
	}
	return out, nil
}
