package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the SQLite read model of the grants table. The dashboard
// reads it once at startup; the import tool writes it.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

var _ dataset.Source = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite:" + r.path }

// selectColumns pairs each dataset column with its SQL expression.
var selectColumns = []struct {
	column string
	expr   string
}{
	{dataset.ColID, "CAST(id AS TEXT)"},
	{dataset.ColIdentifier, "identifier"},
	{dataset.ColSource, "data_source"},
	{dataset.ColTagging, "lc_dedicated"},
	{dataset.ColCategory, "type"},
	{dataset.ColSubcategory, "subtype"},
	{dataset.ColAmount, "amount_awarded"},
	{dataset.ColYear, "CAST(year_awarded AS TEXT)"},
	{dataset.ColAwardDate, "date_awarded"},
	{dataset.ColTitle, "title"},
	{dataset.ColDescription, "description"},
	{dataset.ColOrganisation, "organisation_name"},
	{dataset.ColPostal, "recipient_postal"},
	{dataset.ColOrgRegYear, "org_reg_year"},
	{dataset.ColOrgAge, "org_age"},
	{dataset.ColOrgAgeGroup, "org_age_group"},
	{dataset.ColOrgIncome, "org_income"},
	{dataset.ColOrgIncomeGroup, "org_income_group"},
	{dataset.ColOrgRegDate, "org_reg_date"},
	{dataset.ColOrgType, "org_type"},
	{dataset.ColLon, "COALESCE(CAST(lon AS TEXT), '')"},
	{dataset.ColLat, "COALESCE(CAST(lat AS TEXT), '')"},
}

// ReadTable implements dataset.Source. Rows come back in id order, so the
// loader assigns the same ids they were imported with.
func (r *SQLiteRepository) ReadTable(ctx context.Context) (dataset.Table, error) {
	header := make([]string, len(selectColumns))
	query := "SELECT "
	for i, c := range selectColumns {
		header[i] = c.column
		if i > 0 {
			query += ", "
		}
		query += c.expr
	}
	query += " FROM grants ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	table := dataset.Table{Header: header}
	for rows.Next() {
		rec := make([]string, len(header))
		dest := make([]any, len(rec))
		for i := range rec {
			dest[i] = &rec[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return dataset.Table{}, fmt.Errorf("scan grant: %w", err)
		}
		table.Rows = append(table.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("iterate grants: %w", err)
	}
	return table, nil
}

const insertGrant = `INSERT INTO grants (
	id, identifier, data_source, lc_dedicated, type, subtype, amount_awarded,
	year_awarded, date_awarded, title, description, organisation_name,
	recipient_postal, org_reg_year, org_age, org_age_group, org_income,
	org_income_group, org_reg_date, org_type, lon, lat
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ImportGrants replaces the stored grants with ds in one transaction and
// records the import.
func (r *SQLiteRepository) ImportGrants(ctx context.Context, ds *dataset.Dataset) (err error) {
	start := time.Now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM grants"); err != nil {
		return fmt.Errorf("clear grants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertGrant)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range ds.Grants() {
		if _, err = stmt.ExecContext(ctx, grantArgs(&g)...); err != nil {
			return fmt.Errorf("insert grant %d: %w", g.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO imports (source, row_count, grand_total) VALUES (?, ?, ?)",
		ds.Source(), ds.Len(), ds.GrandTotal().String()); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Grants imported to SQLite",
		"component", "storage",
		"source", ds.Source(),
		"rows", ds.Len(),
		"duration", time.Since(start))
	return nil
}

func grantArgs(g *core.Grant) []any {
	var lon, lat any
	if c, ok := g.Coordinates(); ok {
		lon, lat = c[0], c[1]
	} else {
		// Keep a lone coordinate so the round trip stays faithful.
		if g.Lon != nil {
			lon = *g.Lon
		}
		if g.Lat != nil {
			lat = *g.Lat
		}
	}
	return []any{
		g.ID, g.Identifier, string(g.Source), string(g.Tagging), g.Category,
		g.Subcategory, g.Amount.String(), g.Year, g.AwardDate, g.Title,
		g.Description, g.OrganisationName, g.RecipientPostal,
		g.Org.RegistrationYear, g.Org.Age, g.Org.AgeGroup, g.Org.LatestIncome,
		g.Org.IncomeGroup, g.Org.RegistrationDate, g.Org.Type, lon, lat,
	}
}

// ImportRecord describes one completed import.
type ImportRecord struct {
	Source     string
	Rows       int
	GrandTotal string
	ImportedAt time.Time
}

// LastImport returns the most recent import, or sql.ErrNoRows when the
// database was never populated.
func (r *SQLiteRepository) LastImport(ctx context.Context) (ImportRecord, error) {
	var rec ImportRecord
	var rows int64
	err := r.db.QueryRowContext(ctx,
		"SELECT source, row_count, grand_total, imported_at FROM imports ORDER BY id DESC LIMIT 1").
		Scan(&rec.Source, &rows, &rec.GrandTotal, &rec.ImportedAt)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("read last import: %w", err)
	}
	rec.Rows = int(rows)
	return rec, nil
}

// Count returns the number of stored grants.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM grants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count grants: %w", err)
	}
	return int(n), nil
}

// Ping checks the database connection, for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
