package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"lcgrants/internal/config"
	"lcgrants/internal/dataset"
	"lcgrants/internal/storage"
)

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("memory").IsValid() {
		t.Error("memory should not be valid")
	}
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "csv,sqlite,sheets" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "memory"}); err == nil {
		t.Error("FromAppConfig(memory) should fail")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:         "sheets",
		GoogleSpreadsheetID: "abc",
		GoogleSheetRange:    "Grants!A:Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SheetsBackend || cfg.GoogleSpreadsheetID != "abc" || cfg.GoogleSheetRange != "Grants!A:Z" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"csv", Config{Type: CSVBackend, DataPath: "x.csv"}, false},
		{"csv without path", Config{Type: CSVBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend, GoogleSheetRange: "A:Z"}, true},
		{"sheets without range", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, true},
		{"unknown", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateCSVBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: CSVBackend, DataPath: "/data/grants.csv"})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	src, ok := res.Source.(dataset.CSVSource)
	if !ok {
		t.Fatalf("Source = %T, want dataset.CSVSource", res.Source)
	}
	if src.Path != "/data/grants.csv" {
		t.Errorf("Path = %q", src.Path)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	path := filepath.Join(t.TempDir(), "grants.db")
	res, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	if _, ok := res.Source.(*storage.SQLiteRepository); !ok {
		t.Fatalf("Source = %T, want *storage.SQLiteRepository", res.Source)
	}
	if res.Cleanup == nil {
		t.Error("sqlite backend should have a cleanup function")
	}
}

func TestCreateSheetsBackendWithoutCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	f := NewFactory(nil)
	_, err := f.CreateBackend(context.Background(), Config{
		Type:                SheetsBackend,
		GoogleSpreadsheetID: "id",
		GoogleSheetRange:    "Grants!A:Z",
	})
	if err == nil {
		t.Fatal("CreateBackend() without credentials should fail")
	}
}
