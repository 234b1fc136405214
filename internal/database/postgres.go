package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qadesk/qadesk/internal/model"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation
const pgForeignKeyViolation = "23503"

// PostgreSQL is an implementation of the Database interface using PostgreSQL.
// Records are stored whole as JSONB; the columns beside value exist for
// filtering and ordering.
type PostgreSQL struct {
	pool *pgxpool.Pool
}

// NewPostgreSQL creates a new instance of the PostgreSQL database
func NewPostgreSQL(ctx context.Context, connectionURI string) (*PostgreSQL, error) {
	pool, err := pgxpool.New(ctx, connectionURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := NewMigrator(pool).Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &PostgreSQL{pool: pool}, nil
}

func (db *PostgreSQL) CreateWebsite(ctx context.Context, website *model.Website) error {
	if website == nil || website.ID == "" {
		return ErrInvalidInput
	}

	valueJSON, err := json.Marshal(website)
	if err != nil {
		return fmt.Errorf("failed to marshal website: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO websites (id, owner, value, revision, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, website.ID, string(website.Owner), valueJSON, website.Revision, website.CreatedAt)
	if err != nil {
		return translateWriteError("insert website", err)
	}
	return nil
}

func (db *PostgreSQL) GetWebsite(ctx context.Context, id string) (*model.Website, error) {
	return getWebsite(ctx, db.pool, id, false)
}

func (db *PostgreSQL) ListWebsites(ctx context.Context, filter *WebsiteFilter, cursor string, limit int) ([]*model.Website, string, error) {
	var where []string
	var args []any
	if filter != nil && filter.Owner != nil {
		args = append(args, string(*filter.Owner))
		where = append(where, fmt.Sprintf("owner = $%d", len(args)))
	}

	return queryPage(ctx, db.pool, "websites", where, args, cursor, limit, scanWebsite, func(w *model.Website) string { return w.ID })
}

func (db *PostgreSQL) UpdateWebsite(ctx context.Context, id string, mutate WebsiteMutator) (*model.Website, error) {
	var updated *model.Website
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		current, err := getWebsite(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}
		current.ID = id
		current.Revision++

		valueJSON, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal website: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE websites SET owner = $1, value = $2, revision = $3 WHERE id = $4
		`, string(current.Owner), valueJSON, current.Revision, id); err != nil {
			return fmt.Errorf("failed to update website: %w", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *PostgreSQL) DeleteWebsite(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	// test_runs rows go with it through ON DELETE CASCADE
	result, err := db.pool.Exec(ctx, "DELETE FROM websites WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgreSQL) CreateTestRun(ctx context.Context, run *model.TestRun) error {
	if run == nil || run.ID == "" {
		return ErrInvalidInput
	}
	if !isUUID(run.WebsiteID) {
		return ErrNotFound
	}

	valueJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal test run: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO test_runs (id, website_id, owner, value, revision, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.WebsiteID, string(run.Owner), valueJSON, run.Revision, run.CreatedAt)
	if err != nil {
		return translateWriteError("insert test run", err)
	}
	return nil
}

func (db *PostgreSQL) GetTestRun(ctx context.Context, id string) (*model.TestRun, error) {
	return getTestRun(ctx, db.pool, id, false)
}

func (db *PostgreSQL) ListTestRuns(ctx context.Context, filter *TestRunFilter, cursor string, limit int) ([]*model.TestRun, string, error) {
	var where []string
	var args []any
	if filter != nil {
		if filter.WebsiteID != nil {
			if !isUUID(*filter.WebsiteID) {
				return nil, "", nil
			}
			args = append(args, *filter.WebsiteID)
			where = append(where, fmt.Sprintf("website_id = $%d", len(args)))
		}
		if filter.Owner != nil {
			args = append(args, string(*filter.Owner))
			where = append(where, fmt.Sprintf("owner = $%d", len(args)))
		}
	}

	return queryPage(ctx, db.pool, "test_runs", where, args, cursor, limit, scanTestRun, func(r *model.TestRun) string { return r.ID })
}

func (db *PostgreSQL) UpdateTestRun(ctx context.Context, id string, mutate TestRunMutator) (*model.TestRun, error) {
	var updated *model.TestRun
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		current, err := getTestRun(ctx, tx, id, true)
		if err != nil {
			return err
		}
		websiteID := current.WebsiteID
		if err := mutate(current); err != nil {
			return err
		}
		current.ID = id
		current.WebsiteID = websiteID
		current.Revision++

		valueJSON, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal test run: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE test_runs SET value = $1, revision = $2 WHERE id = $3
		`, valueJSON, current.Revision, id); err != nil {
			return fmt.Errorf("failed to update test run: %w", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *PostgreSQL) GetProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := db.pool.QueryRow(ctx,
		"SELECT name FROM user_profiles WHERE principal = $1", string(principal),
	).Scan(&profile.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (db *PostgreSQL) SaveProfile(ctx context.Context, principal model.Principal, profile model.UserProfile) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO user_profiles (principal, name) VALUES ($1, $2)
		ON CONFLICT (principal) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`, string(principal), profile.Name)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (db *PostgreSQL) GetRole(ctx context.Context, principal model.Principal) (model.UserRole, error) {
	var role string
	err := db.pool.QueryRow(ctx,
		"SELECT role FROM user_roles WHERE principal = $1", string(principal),
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return model.UserRole(role), nil
}

func (db *PostgreSQL) SetRole(ctx context.Context, principal model.Principal, role model.UserRole) error {
	if !role.IsValid() {
		return ErrInvalidInput
	}
	_, err := db.pool.Exec(ctx, `
		INSERT INTO user_roles (principal, role) VALUES ($1, $2)
		ON CONFLICT (principal) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`, string(principal), string(role))
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *PostgreSQL) Close() error {
	db.pool.Close()
	return nil
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getWebsite(ctx context.Context, q querier, id string, forUpdate bool) (*model.Website, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := "SELECT value, revision FROM websites WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	website, err := scanWebsite(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	return website, nil
}

func getTestRun(ctx context.Context, q querier, id string, forUpdate bool) (*model.TestRun, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := "SELECT value, revision FROM test_runs WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	run, err := scanTestRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test run: %w", err)
	}
	return run, nil
}

func scanWebsite(row pgx.Row) (*model.Website, error) {
	var valueJSON []byte
	var revision int64
	if err := row.Scan(&valueJSON, &revision); err != nil {
		return nil, err
	}

	var website model.Website
	if err := json.Unmarshal(valueJSON, &website); err != nil {
		return nil, fmt.Errorf("failed to unmarshal website JSON: %w", err)
	}
	website.Revision = revision
	return &website, nil
}

func scanTestRun(row pgx.Row) (*model.TestRun, error) {
	var valueJSON []byte
	var revision int64
	if err := row.Scan(&valueJSON, &revision); err != nil {
		return nil, err
	}

	var run model.TestRun
	if err := json.Unmarshal(valueJSON, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test run JSON: %w", err)
	}
	run.Revision = revision
	return &run, nil
}

// queryPage selects value and revision from table ordered by id, fetching
// one extra row to learn whether another page exists.
func queryPage[T any](
	ctx context.Context,
	q querier,
	table string,
	where []string,
	args []any,
	cursor string,
	limit int,
	scan func(pgx.Row) (*T, error),
	id func(*T) string,
) ([]*T, string, error) {
	limit = normalizeLimit(limit)

	if cursor != "" {
		if !isUUID(cursor) {
			return nil, "", fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
		}
		args = append(args, cursor)
		where = append(where, fmt.Sprintf("id > $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, limit+1)
	//nolint:gosec // table and column names are fixed by callers
	query := fmt.Sprintf(`
		SELECT value, revision FROM %s
		%s
		ORDER BY id
		LIMIT $%d
	`, table, whereClause, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var results []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating rows: %w", err)
	}

	next := ""
	if len(results) > limit {
		results = results[:limit]
		next = id(results[len(results)-1])
	}
	return results, next, nil
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrAlreadyExists
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
