package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// DuckDBStore persists purchase records in an embedded DuckDB database.
// It is the durable alternative to the CSV file for users who want the
// purchase history queryable with SQL across repeated runs. Decimal
// fields are stored as VARCHAR so the textual representation survives a
// round trip bit-for-bit.
type DuckDBStore struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
}

// NewDuckDBStore opens (or creates) a DuckDB database at dbPath and
// ensures the purchases table exists. Use ":memory:" for an ephemeral
// database.
func NewDuckDBStore(dbPath string, logger *slog.Logger) (*DuckDBStore, error) {
	if dbPath == "" {
		dbPath = "dca_purchases.db"
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, newStorageError("open", fmt.Errorf("failed to open DuckDB database: %w", err))
	}

	// Single writer as recommended for DuckDB.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &DuckDBStore{db: db, dbPath: dbPath, logger: logger}
	if err := store.initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (d *DuckDBStore) initialize(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS purchases (
			buy_date       DATE NOT NULL,
			dca_amount     VARCHAR NOT NULL,
			price          VARCHAR NOT NULL,
			sats           VARCHAR NOT NULL,
			fee            VARCHAR NOT NULL,
			total_invested VARCHAR NOT NULL,
			total_sats     VARCHAR NOT NULL,
			PRIMARY KEY (buy_date)
		)`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return newStorageError("initialize", fmt.Errorf("failed to create purchases table: %w", err))
	}
	d.logger.Debug("DuckDB record store ready", "db_path", d.dbPath)
	return nil
}

// SaveAll implements RecordStore. The previous run's rows are removed in
// the same transaction, matching the CSV backend's overwrite semantics.
func (d *DuckDBStore) SaveAll(ctx context.Context, records []models.PurchaseRecord) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return newStorageError("save", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM purchases"); err != nil {
		return newStorageError("save", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO purchases (buy_date, dca_amount, price, sats, fee, total_invested, total_sats) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return newStorageError("save", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.Date.UTC(), r.DCAAmount, r.Price, r.Sats, r.Fee, r.TotalInvested, r.TotalSats); err != nil {
			return newStorageError("save", fmt.Errorf("record %s: %w", r.Date.Format(models.DateFormat), err))
		}
	}

	if err := tx.Commit(); err != nil {
		return newStorageError("save", err)
	}

	d.logger.Debug("persisted purchase records", "count", len(records), "db_path", d.dbPath)
	return nil
}

// LoadAll implements RecordStore.
func (d *DuckDBStore) LoadAll(ctx context.Context) ([]models.PurchaseRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT buy_date, dca_amount, price, sats, fee, total_invested, total_sats FROM purchases ORDER BY buy_date ASC")
	if err != nil {
		return nil, newStorageError("load", err)
	}
	defer rows.Close()

	records := make([]models.PurchaseRecord, 0)
	for rows.Next() {
		var r models.PurchaseRecord
		var date time.Time
		if err := rows.Scan(&date, &r.DCAAmount, &r.Price, &r.Sats, &r.Fee, &r.TotalInvested, &r.TotalSats); err != nil {
			return nil, newStorageError("load", err)
		}
		r.Date = date.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("load", err)
	}
	return records, nil
}

// Close implements RecordStore.
func (d *DuckDBStore) Close() error {
	return d.db.Close()
}
