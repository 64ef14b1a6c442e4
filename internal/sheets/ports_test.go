package sheets_test

import (
	"context"
	"errors"
	"testing"

	"lcgrants/internal/dataset"
	"lcgrants/internal/dataset/datasettest"
	"lcgrants/internal/sheets"
	"lcgrants/internal/sheets/memory"
)

func TestTableFromValues(t *testing.T) {
	values := [][]interface{}{
		{"Data_source", "Amnt_awa", "Year_awa", ""},
		{"NIHR", 1500.5, float64(2021)},
		{"UKCDR", "200", 2022.0, "ignored", "extra"},
	}
	table, err := sheets.TableFromValues(values)
	if err != nil {
		t.Fatalf("TableFromValues() error = %v", err)
	}
	if len(table.Header) != 3 {
		t.Fatalf("header = %v, want trailing blank trimmed", table.Header)
	}
	if got := table.Rows[0]; got[1] != "1500.5" || got[2] != "2021" {
		t.Errorf("row 0 = %v", got)
	}
	if got := table.Rows[1]; len(got) != 3 || got[2] != "2022" {
		t.Errorf("row 1 = %v", got)
	}
}

func TestTableFromValuesEmpty(t *testing.T) {
	if _, err := sheets.TableFromValues(nil); !errors.Is(err, sheets.ErrEmptyRange) {
		t.Errorf("error = %v, want ErrEmptyRange", err)
	}
	if _, err := sheets.TableFromValues([][]interface{}{{"", ""}}); !errors.Is(err, sheets.ErrEmptyRange) {
		t.Errorf("error = %v, want ErrEmptyRange", err)
	}
}

func TestSourceLoadsDataset(t *testing.T) {
	want := datasettest.Table(
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Amount: "1000", Year: 2021, Lon: "-1.5", Lat: "53.8"},
		datasettest.Row{Source: "GrantNav", Tagging: "No", Category: "Arts", Amount: "250", Year: 2022},
	)
	store := memory.New()
	store.PutTable("sheet-1", "Grants!A:Z", want.Header, want.Rows)

	src := sheets.Source{Reader: store, SpreadsheetID: "sheet-1", Range: "Grants!A:Z"}
	ds, err := dataset.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 2 || ds.GrandTotal().String() != "1250" {
		t.Errorf("dataset = %d rows, total %s", ds.Len(), ds.GrandTotal())
	}
	if store.Reads() != 1 {
		t.Errorf("Reads() = %d, want 1", store.Reads())
	}
	if src.Name() != "sheets:sheet-1/Grants!A:Z" {
		t.Errorf("Name() = %q", src.Name())
	}
}

func TestSourceMissingRange(t *testing.T) {
	src := sheets.Source{Reader: memory.New(), SpreadsheetID: "x", Range: "Nope!A:B"}
	if _, err := dataset.Load(context.Background(), src); err == nil {
		t.Error("Load() of missing range should fail")
	}
}
