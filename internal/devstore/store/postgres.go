package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the schema migrations in name order. Every migration is
// idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	return nil
}

// PostgresCollection stores documents as JSONB rows of the shared documents
// table. Unique fields are claimed in the unique_values side table inside the
// same transaction as the document write.
type PostgresCollection[T Document] struct {
	db         *sql.DB
	collection string
}

func NewPostgresCollection[T Document](db *sql.DB, collection string) *PostgresCollection[T] {
	return &PostgresCollection[T]{db: db, collection: collection}
}

func (s *PostgresCollection[T]) Insert(ctx context.Context, doc *T) error {
	id := (*doc).DocID()
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`,
			s.collection, id, body)
		if err != nil {
			return mapError(err)
		}
		return s.claimUnique(ctx, tx, id, (*doc).UniqueFields())
	})
}

func (s *PostgresCollection[T]) Update(ctx context.Context, doc *T) error {
	id := (*doc).DocID()
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE documents SET body = $3 WHERE collection = $1 AND id = $2`,
			s.collection, id, body)
		if err != nil {
			return mapError(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return pkgerror.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM unique_values WHERE collection = $1 AND doc_id = $2`,
			s.collection, id); err != nil {
			return mapError(err)
		}
		return s.claimUnique(ctx, tx, id, (*doc).UniqueFields())
	})
}

func (s *PostgresCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	if !pkguid.Valid(id) {
		return nil, pkgerror.ErrIdentifierFormat
	}

	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		s.collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerror.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}

	return decode[T](body)
}

func (s *PostgresCollection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Offset, q.Limit = 0, 1
	items, _, err := s.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerror.ErrNotFound
	}
	return items[0], nil
}

func (s *PostgresCollection[T]) Find(ctx context.Context, q Query) ([]*T, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	where, args := s.where(q)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	stmt := `SELECT body FROM documents WHERE ` + where + ` ORDER BY ` + orderBy(q.Sort)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		stmt += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		stmt += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var items []*T
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, 0, err
		}
		doc, err := decode[T](body)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}

	return items, total, nil
}

func (s *PostgresCollection[T]) Delete(ctx context.Context, id string) error {
	if !pkguid.Valid(id) {
		return pkgerror.ErrIdentifierFormat
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		s.collection, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return pkgerror.ErrNotFound
	}
	return nil
}

func (s *PostgresCollection[T]) DeleteMany(ctx context.Context, q Query) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	where, args := s.where(q)
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE `+where, args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PostgresCollection[T]) claimUnique(ctx context.Context, tx *sql.Tx, id string, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		value := fields[field]
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unique_values (collection, field, value, doc_id) VALUES ($1, $2, $3, $4)`,
			s.collection, field, value, id); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (s *PostgresCollection[T]) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// where renders q's conditions. Field paths are validated identifiers, so
// they are inlined as text array literals; values are always bound.
func (s *PostgresCollection[T]) where(q Query) (string, []any) {
	args := []any{s.collection}
	clauses := []string{`collection = $1`}

	bind := func(v any) string {
		args = append(args, v)
		return `$` + strconv.Itoa(len(args))
	}

	for _, c := range q.Conditions {
		path := jsonPath(c.Field)
		text := `body #>> ` + path
		switch c.Op {
		case OpEq:
			scalar := bind(c.Values[0])
			arr, _ := json.Marshal([]string{c.Values[0]})
			clauses = append(clauses, `(`+text+` = `+scalar+` OR body #> `+path+` @> `+bind(string(arr))+`::jsonb)`)
		case OpIn:
			list := bind(pq.Array(c.Values))
			clauses = append(clauses, `(`+text+` = ANY(`+list+`) OR body #> `+path+` ?| `+list+`)`)
		default:
			op := map[Op]string{OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<="}[c.Op]
			if n, err := strconv.ParseFloat(c.Values[0], 64); err == nil {
				clauses = append(clauses, `(`+text+`)::numeric `+op+` `+bind(n))
			} else {
				clauses = append(clauses, text+` `+op+` `+bind(c.Values[0]))
			}
		}
	}

	return strings.Join(clauses, ` AND `), args
}

func orderBy(fields []SortField) string {
	if len(fields) == 0 {
		return `seq`
	}
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		dir := ` ASC NULLS FIRST`
		if f.Desc {
			dir = ` DESC NULLS LAST`
		}
		parts = append(parts, `body #> `+jsonPath(f.Field)+dir)
	}
	parts = append(parts, `seq`)
	return strings.Join(parts, `, `)
}

func jsonPath(field string) string {
	return `'{` + strings.Join(pathOf(field), ",") + `}'`
}

// mapError translates driver errors into the storage sentinels.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", pqErr.Constraint, pkgerror.ErrDuplicateValue)
		case "22P02":
			return fmt.Errorf("%s: %w", pqErr.Message, pkgerror.ErrIdentifierFormat)
		}
	}
	return err
}
