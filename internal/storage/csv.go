package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// csvHeader is the persisted column order. It is a compatibility surface:
// the file is the hand-off artifact read back by reporting and the return
// calculator, and may be consumed by spreadsheets.
var csvHeader = []string{
	"Buy Date", "DCA Amount", "Historical Price", "Sats", "Fee", "Total Invested", "Total Sats",
}

// CSVStore persists purchase records as a flat tabular text file, one row
// per resolved purchase in date order. The file is rewritten wholesale on
// every save.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSV-backed record store at the given path.
func NewCSVStore(path string) *CSVStore {
	if path == "" {
		path = "dca_purchases.csv"
	}
	return &CSVStore{path: path}
}

// Path returns the location of the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

// SaveAll implements RecordStore. The file is written atomically enough
// for a single-process tool: create, write all rows, flush, close.
func (s *CSVStore) SaveAll(ctx context.Context, records []models.PurchaseRecord) error {
	if err := ctx.Err(); err != nil {
		return newStorageError("save", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return newStorageError("save", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return newStorageError("save", err)
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.Date.Format(models.DateFormat),
			r.DCAAmount,
			r.Price,
			r.Sats,
			r.Fee,
			r.TotalInvested,
			r.TotalSats,
		}
		if err := writer.Write(row); err != nil {
			return newStorageError("save", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return newStorageError("save", err)
	}
	return nil
}

// LoadAll implements RecordStore. A missing file reads as an empty store.
func (s *CSVStore) LoadAll(ctx context.Context) ([]models.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, newStorageError("load", err)
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.PurchaseRecord{}, nil
		}
		return nil, newStorageError("load", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, newStorageError("load", err)
	}
	if len(rows) == 0 {
		return []models.PurchaseRecord{}, nil
	}

	// First row is the header.
	records := make([]models.PurchaseRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, newStorageError("load",
				fmt.Errorf("row %d has %d columns, want %d", i+1, len(row), len(csvHeader)))
		}
		date, err := time.ParseInLocation(models.DateFormat, row[0], time.UTC)
		if err != nil {
			return nil, newStorageError("load", fmt.Errorf("row %d: invalid date %q: %w", i+1, row[0], err))
		}
		record := models.PurchaseRecord{
			Date:          date,
			DCAAmount:     row[1],
			Price:         row[2],
			Sats:          row[3],
			Fee:           row[4],
			TotalInvested: row[5],
			TotalSats:     row[6],
		}
		if err := record.Validate(); err != nil {
			return nil, newStorageError("load", fmt.Errorf("row %d: %w", i+1, err))
		}
		records = append(records, record)
	}
	return records, nil
}

// Close implements RecordStore. The CSV store holds no open resources
// between operations.
func (s *CSVStore) Close() error {
	return nil
}
