package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/talentmatch/internal/models"
)

func writeFixture(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Candidates"); err != nil {
		t.Fatal(err)
	}
	rows := [][]any{
		{"Name", "Email", "Summary", "Skills", "Location"},
		{"Ada", "ada@example.com", "Backend engineer", "Go, SQL", "Berlin"},
		{"Bob", "Bob@Example.com", "", "Python", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Candidates", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestWorkbook_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeFixture(t, path)
	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	recs, err := wb.Records(context.Background(), "Candidates")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Get("Name") != "Ada" || recs[0].Get("Skills") != "Go, SQL" {
		t.Errorf("unexpected first record: %v", recs[0])
	}
	if recs[1].Get("Summary") != "" {
		t.Errorf("blank cell should read empty, got %q", recs[1].Get("Summary"))
	}
}

func TestWorkbook_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeFixture(t, path)
	wb, _ := OpenWorkbook(path)
	_, err := wb.Records(context.Background(), "Jobs")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWorkbook_FindAndSetCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeFixture(t, path)
	wb, _ := OpenWorkbook(path)
	ctx := context.Background()

	rec, row, err := wb.Find(ctx, "Candidates", "Email", "  bob@example.com ")
	if err != nil {
		t.Fatal(err)
	}
	if row != 3 || rec.Get("Name") != "Bob" {
		t.Errorf("Find = %v row %d", rec, row)
	}

	if _, _, err := wb.Find(ctx, "Candidates", "Email", "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if err := wb.SetCell(ctx, "Candidates", row, "Embedding", "abc"); err != nil {
		t.Fatal(err)
	}
	recs, _ := wb.Records(ctx, "Candidates")
	if recs[1].Get("Embedding") != "abc" {
		t.Errorf("Embedding = %q, want abc", recs[1].Get("Embedding"))
	}
	if recs[0].Get("Embedding") != "" {
		t.Errorf("other row changed: %q", recs[0].Get("Embedding"))
	}

	if err := wb.SetCell(ctx, "Candidates", 1, "Name", "x"); err == nil {
		t.Error("expected error writing header row")
	}
}

func TestWorkbook_CreateAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "new.xlsx")
	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	row, err := wb.Append(ctx, "Candidates", models.Record{"Name": "Cy", "Email": "cy@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if row != FirstDataRow {
		t.Errorf("first append row = %d, want %d", row, FirstDataRow)
	}
	row, err = wb.Append(ctx, "Candidates", models.Record{"Name": "Di", "Skills": "Rust"})
	if err != nil {
		t.Fatal(err)
	}
	if row != FirstDataRow+1 {
		t.Errorf("second append row = %d", row)
	}
	recs, err := wb.Records(ctx, "Candidates")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[1].Get("Skills") != "Rust" || recs[0].Get("Email") != "cy@example.com" {
		t.Errorf("records = %v", recs)
	}
}
