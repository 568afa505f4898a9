package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/model"
)

// pgStore serves every collection from one table per resource. Statements
// are built from the per-resource column allow-list, so unknown payload
// fields are dropped rather than persisted; single-statement
// insert/update/delete gives row-level atomicity the flat-file backend
// cannot.
type pgStore struct {
	db *sqlx.DB
}

// NewPGStore returns a Store backed by the global sqlx connection.
func NewPGStore() Store {
	return &pgStore{db: DB}
}

// normalizeRow converts driver types into plain JSON-friendly values:
// []byte to string, int64 to int, DATE columns to "2006-01-02".
func normalizeRow(row map[string]any) model.Record {
	out := make(model.Record, len(row))
	for k, v := range row {
		switch t := v.(type) {
		case []byte:
			out[k] = string(t)
		case int64:
			out[k] = int(t)
		case time.Time:
			out[k] = t.Format("2006-01-02")
		default:
			out[k] = v
		}
	}
	return out
}

// pickColumns filters the payload down to the allow-listed columns,
// preserving the config's column order so generated SQL is deterministic.
func pickColumns(cfg model.ResourceConfig, fields model.Record) ([]string, []any) {
	var cols []string
	var args []any
	for _, col := range cfg.Columns {
		if v, ok := fields[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	return cols, args
}

func (s *pgStore) List(resource string) ([]model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	dir := "ASC"
	if cfg.Descending {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id %s;`, pq.QuoteIdentifier(cfg.Name), dir)

	rows, err := s.db.Queryx(query)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("failed to list records")
		return nil, err
	}
	defer rows.Close()

	all := []model.Record{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			log.Error().Err(err).Str("resource", resource).Msg("failed to scan record")
			return nil, err
		}
		all = append(all, normalizeRow(row))
	}
	return all, rows.Err()
}

func (s *pgStore) GetByID(resource string, id int) (model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1;`, pq.QuoteIdentifier(cfg.Name))

	row := map[string]any{}
	err := s.db.QueryRowx(query, id).MapScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Int("id", id).Msg("failed to get record")
		return nil, err
	}
	return normalizeRow(row), nil
}

func (s *pgStore) Create(resource string, fields model.Record) (model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	cols, args := pickColumns(cfg, fields)

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING *;`, pq.QuoteIdentifier(cfg.Name))
	} else {
		quoted := make([]string, len(cols))
		placeholders := make([]string, len(cols))
		for i, col := range cols {
			quoted[i] = pq.QuoteIdentifier(col)
			placeholders[i] = "$" + strconv.Itoa(i+1)
		}
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *;`,
			pq.QuoteIdentifier(cfg.Name),
			strings.Join(quoted, ", "),
			strings.Join(placeholders, ", "),
		)
	}

	row := map[string]any{}
	if err := s.db.QueryRowx(query, args...).MapScan(row); err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("failed to create record")
		return nil, err
	}
	return normalizeRow(row), nil
}

func (s *pgStore) Update(resource string, id int, fields model.Record) (model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	cols, args := pickColumns(cfg, fields)
	if len(cols) == 0 {
		// nothing recognized to change; still report NotFound for absent ids
		return s.GetByID(resource, id)
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING *;`,
		pq.QuoteIdentifier(cfg.Name),
		strings.Join(sets, ", "),
		len(args),
	)

	row := map[string]any{}
	err := s.db.QueryRowx(query, args...).MapScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Int("id", id).Msg("failed to update record")
		return nil, err
	}
	return normalizeRow(row), nil
}

func (s *pgStore) Delete(resource string, id int) (model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING *;`, pq.QuoteIdentifier(cfg.Name))

	row := map[string]any{}
	err := s.db.QueryRowx(query, id).MapScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Int("id", id).Msg("failed to delete record")
		return nil, err
	}
	return normalizeRow(row), nil
}

func (s *pgStore) Count(resource string) (int, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return 0, fmt.Errorf("unknown resource %q", resource)
	}
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s;`, pq.QuoteIdentifier(cfg.Name))
	if err := s.db.Get(&n, query); err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("failed to count records")
		return 0, err
	}
	return n, nil
}

func (s *pgStore) CountByStatus(resource, status string) (int, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return 0, fmt.Errorf("unknown resource %q", resource)
	}
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = $1;`, pq.QuoteIdentifier(cfg.Name))
	if err := s.db.Get(&n, query, status); err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("failed to count records by status")
		return 0, err
	}
	return n, nil
}

func (s *pgStore) GetUserByUsername(username string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, username, password, name, role
	FROM users
	WHERE username = $1;`

	err := s.db.Get(&u, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get user by username")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByCredentials(username, passwordDigest string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, username, password, name, role
	FROM users
	WHERE username = $1 AND password = $2;`

	err := s.db.Get(&u, query, username, passwordDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get user by credentials")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) CreateUser(username, passwordDigest, name, role string) (int, error) {
	query := `
	INSERT INTO users (username, password, name, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`

	var newID int
	if err := s.db.QueryRow(query, username, passwordDigest, name, role).Scan(&newID); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return 0, err
	}
	return newID, nil
}

func (s *pgStore) UpdateUserPassword(id int, passwordDigest string) error {
	res, err := s.db.Exec(`UPDATE users SET password = $2 WHERE id = $1;`, id, passwordDigest)
	if err != nil {
		log.Error().Err(err).Msg("failed to update user password")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) CountUsers() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM users;`); err != nil {
		log.Error().Err(err).Msg("failed to count users")
		return 0, err
	}
	return n, nil
}
