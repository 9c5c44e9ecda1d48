package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/talentmatch/internal/models"
)

// Workbook implements RecordStore on an .xlsx file. The file is reopened on
// every call so edits made outside the process are visible; writes are serialized.
type Workbook struct {
	path string
	mu   sync.Mutex
}

// OpenWorkbook returns a store for the workbook at path, creating an empty
// workbook (and parent directories) when the file does not exist.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create workbook directory: %w", err)
			}
		}
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		_ = f.Close()
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}
	return &Workbook{path: path}, nil
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// Records implements RecordStore.
func (w *Workbook) Records(ctx context.Context, sheet string) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := normalizeHeader(rows[0])
	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Find implements RecordStore.
func (w *Workbook) Find(ctx context.Context, sheet, column, value string) (models.Record, int, error) {
	records, err := w.Records(ctx, sheet)
	if err != nil {
		return nil, 0, err
	}
	want := strings.TrimSpace(value)
	for i, rec := range records {
		if strings.EqualFold(rec.Get(column), want) {
			return rec, FirstDataRow + i, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: no %s %q in sheet %q", ErrNotFound, column, value, sheet)
}

// SetCell implements RecordStore.
func (w *Workbook) SetCell(ctx context.Context, sheet string, row int, column, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if row < FirstDataRow {
		return fmt.Errorf("row %d is not a data row", row)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f, sheet)
	if err != nil {
		return err
	}
	var header []string
	if len(rows) > 0 {
		header = normalizeHeader(rows[0])
	}
	col, err := ensureColumn(f, sheet, header, column)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Append implements RecordStore. The sheet is created if missing, and
// headers are added for columns it does not have yet.
func (w *Workbook) Append(ctx context.Context, sheet string, rec models.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if err := ensureSheet(f, sheet); err != nil {
		return 0, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	var header []string
	if len(rows) > 0 {
		header = normalizeHeader(rows[0])
	}
	row := len(rows) + 1
	if row < FirstDataRow {
		row = FirstDataRow
	}

	columns := make([]string, 0, len(rec))
	for name := range rec {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	for _, name := range columns {
		col, err := ensureColumn(f, sheet, header, name)
		if err != nil {
			return 0, err
		}
		if col > len(header) {
			header = append(header, make([]string, col-len(header))...)
			header[col-1] = name
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheet, cell, rec[name]); err != nil {
			return 0, fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %w", err)
	}
	return row, nil
}

// Close implements RecordStore. The workbook holds no open handles between calls.
func (w *Workbook) Close() error {
	return nil
}

func readRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: sheet %q", ErrNotFound, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func ensureSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}
	if idx != -1 {
		return nil
	}
	// a fresh workbook has one empty default sheet; rename it instead of
	// leaving it behind
	if list := f.GetSheetList(); len(list) == 1 {
		if rows, _ := f.GetRows(list[0]); len(rows) == 0 {
			return f.SetSheetName(list[0], sheet)
		}
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	return nil
}

// ensureColumn returns the 1-based index of column in header, writing a new
// header cell after the last one when it is missing.
func ensureColumn(f *excelize.File, sheet string, header []string, column string) (int, error) {
	for i, name := range header {
		if strings.EqualFold(name, column) {
			return i + 1, nil
		}
	}
	col := len(header) + 1
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sheet, cell, column); err != nil {
		return 0, fmt.Errorf("failed to add column %q: %w", column, err)
	}
	return col, nil
}

func normalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
