// Package export writes the dashboard data out as JSON or an Excel workbook.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Sheet names in the workbook, in order.
const (
	SheetSites     = "Sites"
	SheetBookmarks = "Bookmarks"
	SheetHistory   = "History"
)

// Snapshot is everything an export contains.
type Snapshot struct {
	ExportedAt  time.Time              `json:"exportedAt"`
	Preferences domain.Preferences     `json:"preferences"`
	Sites       []domain.SiteEntry     `json:"customSites"`
	Bookmarks   []domain.BookmarkEntry `json:"bookmarks"`
	History     []domain.HistoryEntry  `json:"history"`
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Write encodes snap in format.
func Write(w io.Writer, format string, snap Snapshot) error {
	switch format {
	case FormatJSON, "":
		return JSON(w, snap)
	case FormatXLSX:
		return XLSX(w, snap)
	default:
		return &domain.ValidationError{Field: "format", Value: format, Reason: "must be json or xlsx"}
	}
}

// JSON writes snap as an indented JSON document.
func JSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// XLSX writes one sheet per list.
func XLSX(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSites); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetBookmarks); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return err
	}

	sites := make([][]interface{}, 0, len(snap.Sites))
	for _, s := range snap.Sites {
		sites = append(sites, []interface{}{s.Name, s.URL, s.Icon})
	}
	if err := writeSheet(f, SheetSites, []interface{}{"name", "url", "icon"}, sites); err != nil {
		return err
	}

	bookmarks := make([][]interface{}, 0, len(snap.Bookmarks))
	for _, b := range snap.Bookmarks {
		bookmarks = append(bookmarks, []interface{}{b.Title, b.URL, b.Icon, formatDate(b.Date)})
	}
	if err := writeSheet(f, SheetBookmarks, []interface{}{"title", "url", "icon", "date"}, bookmarks); err != nil {
		return err
	}

	history := make([][]interface{}, 0, len(snap.History))
	for _, h := range snap.History {
		history = append(history, []interface{}{h.Title, h.URL, formatDate(h.Date)})
	}
	if err := writeSheet(f, SheetHistory, []interface{}{"title", "url", "date"}, history); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
