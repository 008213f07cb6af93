package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the embedded goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Action type lookup
		CREATE TABLE action_type (
			code INTEGER NOT NULL PRIMARY KEY,
			name VARCHAR(10) NOT NULL
		);

		-- Investment table
		CREATE TABLE investment (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			isin VARCHAR(20) NOT NULL,
			short_name VARCHAR(30) NOT NULL DEFAULT '',
			ticker_symbol VARCHAR(20) NOT NULL DEFAULT '',
			quote_provider VARCHAR(20) NOT NULL DEFAULT ''
		);

		-- Movement table; decimals stored as TEXT
		CREATE TABLE movement (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			date VARCHAR(10) NOT NULL,
			action_code INTEGER NOT NULL REFERENCES action_type (code),
			investment_id VARCHAR(36) NOT NULL REFERENCES investment (id),
			quantity TEXT NOT NULL,
			amount TEXT NOT NULL,
			fee TEXT NOT NULL DEFAULT '0'
		);

		CREATE INDEX movement_investment_idx ON movement (investment_id);
		CREATE INDEX movement_action_idx ON movement (action_code);

		-- Investment price table
		CREATE TABLE investment_price (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			investment_id VARCHAR(36) NOT NULL REFERENCES investment (id),
			date VARCHAR(10) NOT NULL,
			price TEXT NOT NULL,
			source VARCHAR(20) NOT NULL,
			UNIQUE (investment_id, date)
		);

		CREATE INDEX investment_price_investment_idx ON investment_price (investment_id);

		-- Settings singleton
		CREATE TABLE settings (
			id INTEGER NOT NULL PRIMARY KEY,
			base_currency VARCHAR(3) NOT NULL
		);

		-- Seed action types
		INSERT INTO action_type (code, name) VALUES (1, 'Buy');
		INSERT INTO action_type (code, name) VALUES (2, 'Sell');
		INSERT INTO action_type (code, name) VALUES (3, 'Payout');
	`

	_, err := db.Exec(schema)
	return err
}
