// Package export writes learning progress to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
)

// Sheet names, in workbook order.
const (
	SheetProgress = "Progress"
	SheetSessions = "Sessions"
	SheetDaily    = "Daily"
)

// Report is everything that goes into one workbook.
type Report struct {
	Stats     stats.UserStats
	Sessions  []store.SessionEvent
	Days      []store.DayActivity
	Generated time.Time
}

// WriteFile saves the report as an .xlsx file at path.
func WriteFile(path string, r Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Write streams the report as .xlsx to w.
func Write(w io.Writer, r Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetProgress); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSessions, SheetDaily} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := sheetWriter{f: f, bold: bold}
	w.progress(r)
	w.sessions(r.Sessions)
	w.daily(r.Days)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter keeps the first error so the row helpers can be called
// unconditionally.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) header(sheet string, cols ...interface{}) {
	w.row(sheet, 1, cols...)
	if w.err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := w.f.SetCellStyle(sheet, "A1", last, w.bold); err != nil {
		w.err = fmt.Errorf("style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) progress(r Report) {
	s := r.Stats
	w.header(SheetProgress, "Metric", "Value")
	rows := [][]interface{}{
		{"Generated", r.Generated.Format(time.RFC3339)},
		{"Streak", s.Streak},
		{"Points", s.Points},
		{"Level", s.Level()},
		{"Learned words", s.LearnedWords},
		{"Words today", s.WordsToday},
		{"Daily goal", s.GoalToday},
		{"Last login", s.LastLoginDate.String()},
	}
	for _, a := range s.Achievements() {
		status := fmt.Sprintf("%d/%d", min(a.Progress, a.Target), a.Target)
		if a.Unlocked() {
			status = "unlocked"
		}
		rows = append(rows, []interface{}{a.Name, status})
	}
	for i, v := range rows {
		w.row(SheetProgress, i+2, v...)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(SheetProgress, "A", "B", 18)
	}
}

func (w *sheetWriter) sessions(events []store.SessionEvent) {
	w.header(SheetSessions, "Time", "Day", "Session", "Scene", "Action", "Words", "Points", "Fallback")
	for i, e := range events {
		w.row(SheetSessions, i+2,
			e.Timestamp.Format(time.RFC3339), e.Day, e.SessionID, e.SceneID,
			e.Action, e.Words, e.Points, e.Fallback)
	}
}

func (w *sheetWriter) daily(days []store.DayActivity) {
	w.header(SheetDaily, "Day", "Words")
	for i, d := range days {
		w.row(SheetDaily, i+2, d.Day, d.Words)
	}
}
