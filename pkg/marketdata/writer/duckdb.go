package writer

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantx-lab/quantx/internal/types"
)

// DuckDBWriter persists daily bars into the daily_bars table of a DuckDB
// database file. Re-downloading a range replaces existing rows, so repeated
// downloads are idempotent. When a parquet path is configured, Finalize also
// exports the table via DuckDB COPY.
type DuckDBWriter struct {
	db          *sql.DB
	tx          *sql.Tx
	stmt        *sql.Stmt
	dbPath      string
	parquetPath string
}

// NewDuckDBWriter creates a writer targeting the given database file.
// parquetPath may be empty to skip the parquet export.
func NewDuckDBWriter(dbPath, parquetPath string) BarWriter {
	return &DuckDBWriter{
		dbPath:      dbPath,
		parquetPath: parquetPath,
	}
}

// Initialize opens the database, creates the daily_bars table if needed,
// begins a transaction and prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", w.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_bars (
			ticker TEXT,
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			adj_close DOUBLE,
			volume DOUBLE,
			PRIMARY KEY (ticker, time)
		)
	`)
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO daily_bars (ticker, time, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// Write persists a single bar using the prepared statement within the transaction.
func (w *DuckDBWriter) Write(ticker string, bar types.Bar) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	_, err := w.stmt.Exec(
		ticker,
		bar.Time,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.AdjClose,
		bar.Volume,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bar: %w", err)
	}

	return nil
}

// Finalize commits the transaction and runs the optional parquet export.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	if w.parquetPath != "" {
		_, err = w.db.Exec(fmt.Sprintf(`COPY daily_bars TO '%s' (FORMAT PARQUET)`, w.parquetPath))
		if err != nil {
			return "", fmt.Errorf("failed to export to parquet: %w", err)
		}
	}

	return w.dbPath, nil
}

// Close releases the database connection, rolling back any open transaction.
func (w *DuckDBWriter) Close() error {
	if w.stmt != nil {
		w.stmt.Close()
		w.stmt = nil
	}

	if w.tx != nil {
		w.tx.Rollback()
		w.tx = nil
	}

	if w.db != nil {
		err := w.db.Close()
		w.db = nil

		return err
	}

	return nil
}

// GetOutputPath returns the database file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.dbPath
}
