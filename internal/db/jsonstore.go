package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/model"
)

// jsonStore keeps one <resource>.json file per collection and rewrites the
// whole file on every mutation. The mutex serializes writers within this
// process; the read-modify-write is still not atomic across processes.
type jsonStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore opens (creating if needed) a flat-file store rooted at dir.
func NewJSONStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data dir %q: %w", dir, err)
	}
	return &jsonStore{dir: dir}, nil
}

func (s *jsonStore) readCollection(name string) ([]model.Record, error) {
	path := filepath.Join(s.dir, name+".json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []model.Record{}, nil
	}
	if err != nil {
		log.Error().Err(err).Str("collection", name).Msg("failed to read data file")
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var items []model.Record
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Error().Err(err).Str("collection", name).Msg("corrupt data file")
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, nil
}

func (s *jsonStore) writeCollection(name string, items []model.Record) error {
	raw, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Error().Err(err).Str("collection", name).Msg("failed to write data file")
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// nextID is one greater than the current maximum id.
func nextID(items []model.Record) int {
	max := 0
	for _, item := range items {
		if id, ok := item.ID(); ok && id > max {
			max = id
		}
	}
	return max + 1
}

func (s *jsonStore) List(resource string) ([]model.Record, error) {
	cfg, ok := model.ResourceByName(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(resource)
	if err != nil {
		return nil, err
	}
	// stable: equal ids keep their original sequence
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := items[i].ID()
		b, _ := items[j].ID()
		if cfg.Descending {
			return a > b
		}
		return a < b
	})
	return items, nil
}

func (s *jsonStore) GetByID(resource string, id int) (model.Record, error) {
	if _, ok := model.ResourceByName(resource); !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(resource)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if got, ok := item.ID(); ok && got == id {
			return item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *jsonStore) Create(resource string, fields model.Record) (model.Record, error) {
	if _, ok := model.ResourceByName(resource); !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(resource)
	if err != nil {
		return nil, err
	}
	item := fields.Clone()
	delete(item, "id")
	item["id"] = nextID(items)

	items = append(items, item)
	if err := s.writeCollection(resource, items); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *jsonStore) Update(resource string, id int, fields model.Record) (model.Record, error) {
	if _, ok := model.ResourceByName(resource); !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(resource)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		got, ok := item.ID()
		if !ok || got != id {
			continue
		}
		merged := item.Clone()
		for k, v := range fields {
			// id is immutable; a payload id is ignored
			if k == "id" {
				continue
			}
			merged[k] = v
		}
		items[i] = merged
		if err := s.writeCollection(resource, items); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, ErrNotFound
}

func (s *jsonStore) Delete(resource string, id int) (model.Record, error) {
	if _, ok := model.ResourceByName(resource); !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(resource)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if got, ok := item.ID(); ok && got == id {
			items = append(items[:i], items[i+1:]...)
			if err := s.writeCollection(resource, items); err != nil {
				return nil, err
			}
			return item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *jsonStore) Count(resource string) (int, error) {
	items, err := s.List(resource)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *jsonStore) CountByStatus(resource, status string) (int, error) {
	items, err := s.List(resource)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range items {
		if item.Status() == status {
			n++
		}
	}
	return n, nil
}

const usersFile = "users"

func userFromRecord(r model.Record) *model.User {
	id, _ := r.ID()
	username, _ := r["username"].(string)
	password, _ := r["password"].(string)
	name, _ := r["name"].(string)
	role, _ := r["role"].(string)
	return &model.User{ID: id, Username: username, Password: password, Name: name, Role: role}
}

func (s *jsonStore) GetUserByUsername(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(usersFile)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if u, _ := item["username"].(string); u == username {
			return userFromRecord(item), nil
		}
	}
	return nil, ErrNotFound
}

func (s *jsonStore) GetUserByCredentials(username, passwordDigest string) (*model.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user.Password != passwordDigest {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *jsonStore) CreateUser(username, passwordDigest, name, role string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(usersFile)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if u, _ := item["username"].(string); u == username {
			return 0, fmt.Errorf("username %q already taken", username)
		}
	}
	id := nextID(items)
	items = append(items, model.Record{
		"id":       id,
		"username": username,
		"password": passwordDigest,
		"name":     name,
		"role":     role,
	})
	if err := s.writeCollection(usersFile, items); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *jsonStore) UpdateUserPassword(id int, passwordDigest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(usersFile)
	if err != nil {
		return err
	}
	for i, item := range items {
		if got, ok := item.ID(); ok && got == id {
			items[i]["password"] = passwordDigest
			return s.writeCollection(usersFile, items)
		}
	}
	return ErrNotFound
}

func (s *jsonStore) CountUsers() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readCollection(usersFile)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
