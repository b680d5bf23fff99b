package store

import (
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// eventRepo implements EventRepo. Writes go through database/sql, reads are
// scanned with sqlx, and every statement is built with ent's SQL builder.
type eventRepo struct {
	db  *sql.DB
	dbx *sqlx.DB
}

// timeRange turns the time bounds of opts into predicates on created_at.
func timeRange(opts QueryOpts) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	return preds
}

// applyOpts adds filters, newest-first ordering, and the limit to sel.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if preds := timeRange(opts); len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
