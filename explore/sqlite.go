package explore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createTweets = `
CREATE TABLE tweets (
	date  TEXT NOT NULL,
	tweet TEXT NOT NULL
)`

// WriteSQLite exports the table to a tweets(date, tweet) table in the SQLite
// file at path, replacing any previous export.
func (t *Table) WriteSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if err := t.insertAll(ctx, db); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func (t *Table) insertAll(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS tweets`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, createTweets); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tweets (date, tweet) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range t.Rows {
		if _, err := stmt.ExecContext(ctx, r.Date, r.Tweet); err != nil {
			return err
		}
	}
	return tx.Commit()
}
