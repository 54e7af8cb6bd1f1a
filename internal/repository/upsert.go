package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/WayneOg/ease-E-movies/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// column is one attribute written by an upsert.  Names always come from the
// attrs types in this package, never from callers.
type column struct {
	name  string
	value any
}

// upsertStmt builds a single INSERT ... ON DUPLICATE KEY UPDATE that writes
// only cols.  keys are the natural-key columns and are never updated.  When
// idCol is set the surrogate id is exposed through LAST_INSERT_ID on both the
// insert and the update path.
func upsertStmt(table string, keys, cols []column, idCol string) (string, []any) {
	names := make([]string, 0, len(keys)+len(cols))
	args := make([]any, 0, len(keys)+len(cols))
	for _, k := range keys {
		names = append(names, k.name)
		args = append(args, k.value)
	}
	updates := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		names = append(names, c.name)
		args = append(args, c.value)
		updates = append(updates, c.name+" = VALUES("+c.name+")")
	}
	if idCol != "" {
		updates = append(updates, idCol+" = LAST_INSERT_ID("+idCol+")")
	}
	if len(updates) == 0 {
		updates = append(updates, keys[0].name+" = "+keys[0].name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	q := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") VALUES (" + placeholders + ")" +
		" ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
	return q, args
}

// wasInserted interprets MySQL's affected-row count for ON DUPLICATE KEY
// UPDATE: 1 means a new row, 2 an updated row, 0 an unchanged row.
func wasInserted(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// genreLink names a many-to-many table between an item and genres.
type genreLink struct {
	table    string
	ownerCol string
}

var (
	movieGenreLink  = genreLink{table: "movie_genres", ownerCol: "movie_id"}
	seriesGenreLink = genreLink{table: "series_genres", ownerCol: "series_id"}
)

// add links genreIDs to owner.  INSERT IGNORE makes re-adding a no-op.
func (l genreLink) add(ctx context.Context, db execer, owner int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	values := make([]string, 0, len(genreIDs))
	args := make([]any, 0, 2*len(genreIDs))
	for _, g := range genreIDs {
		values = append(values, "(?, ?)")
		args = append(args, owner, g)
	}
	q := "INSERT IGNORE INTO " + l.table + " (" + l.ownerCol + ", genre_id) VALUES " + strings.Join(values, ", ")
	_, err := db.ExecContext(ctx, q, args...)
	return err
}

// replace makes genreIDs the exact genre set of owner.
func (l genreLink) replace(ctx context.Context, db *sql.DB, owner int64, genreIDs []int64) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+l.table+" WHERE "+l.ownerCol+" = ?", owner); err != nil {
		return err
	}
	err = l.add(ctx, tx, owner, genreIDs)
	return err
}

func (l genreLink) list(ctx context.Context, db queryer, owner int64) ([]model.Genre, error) {
	q := "SELECT g.id, g.name FROM genres g JOIN " + l.table + " l ON l.genre_id = g.id WHERE l." + l.ownerCol + " = ? ORDER BY g.name"
	rows, err := db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// likePattern builds a case-insensitive "contains" pattern, escaping LIKE
// wildcards in the user's text.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// nullString stores an empty provider string as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
