// One-shot importer: loads the flat JSON data files into Postgres so a
// deployment can switch STORE_BACKEND from json to postgres without losing
// content. Existing ids are kept; rows that already exist are left alone.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/model"
)

func main() {
	_ = godotenv.Load()
	viper.AutomaticEnv()
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("MIGRATIONS_PATH", "./migrations")

	databaseURL := viper.GetString("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	dataDir := viper.GetString("DATA_DIR")

	if err := db.Init(databaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(viper.GetString("MIGRATIONS_PATH")); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	for _, cfg := range model.Resources {
		n, err := importCollection(dataDir, cfg)
		if err != nil {
			log.Fatal().Err(err).Str("resource", cfg.Name).Msg("import failed")
		}
		log.Info().Str("resource", cfg.Name).Int("records", n).Msg("imported")
	}

	n, err := importUsers(dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("user import failed")
	}
	log.Info().Int("records", n).Msg("imported users")

	tables := []string{"users"}
	for _, cfg := range model.Resources {
		tables = append(tables, cfg.Name)
	}
	for _, table := range tables {
		if err := resetSequence(table); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("sequence reset failed")
		}
	}

	log.Info().Msg("migration complete")
}

func readDataFile(dataDir, name string) ([]model.Record, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, name+".json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []model.Record
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, nil
}

func importCollection(dataDir string, cfg model.ResourceConfig) (int, error) {
	items, err := readDataFile(dataDir, cfg.Name)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		id, ok := item.ID()
		if !ok {
			return 0, fmt.Errorf("record without id in %s", cfg.Name)
		}
		cols := []string{"id"}
		args := []any{id}
		for _, col := range cfg.Columns {
			if v, present := item[col]; present {
				cols = append(cols, col)
				args = append(args, v)
			}
		}
		if err := insertRow(cfg.Name, cols, args); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func importUsers(dataDir string) (int, error) {
	items, err := readDataFile(dataDir, "users")
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		id, ok := item.ID()
		if !ok {
			return 0, fmt.Errorf("user record without id")
		}
		args := []any{id, item["username"], item["password"], item["name"], item["role"]}
		if err := insertRow("users", []string{"id", "username", "password", "name", "role"}, args); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func insertRow(table string, cols []string, args []any) error {
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO NOTHING;`,
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	_, err := db.DB.Exec(query, args...)
	return err
}

// resetSequence bumps the serial past the highest imported id so future
// inserts don't collide.
func resetSequence(table string) error {
	query := fmt.Sprintf(`SELECT setval('%s_id_seq', (SELECT COALESCE(MAX(id), 0) + 1 FROM %s), false);`,
		table, pq.QuoteIdentifier(table))
	_, err := db.DB.Exec(query)
	return err
}
