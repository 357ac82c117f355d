package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/models"
)

// document is the on-disk layout of a JSON store. Activities keep their
// insertion order, which drives row order in the chart.
type document struct {
	Version    int               `json:"version"`
	Settings   models.Settings   `json:"settings"`
	Activities []models.Activity `json:"activities"`
}

// JSONStore keeps everything in a single JSON file that is rewritten on
// every change. It suits small plans and easy hand inspection.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	s.doc = &document{Version: 1, Settings: models.DefaultSettings()}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error { return nil }

// save writes to a temporary file and renames it over the original.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) find(id models.ActivityID) int {
	for i, a := range s.doc.Activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *JSONStore) AddActivity(a models.Activity) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if s.find(a.ID) >= 0 {
		return fmt.Errorf("activity %s already exists", a.ID)
	}
	a.DeletedAt = nil
	s.doc.Activities = append(s.doc.Activities, a)
	return s.save()
}

func (s *JSONStore) GetActivity(id models.ActivityID) (models.Activity, error) {
	if err := s.loaded(); err != nil {
		return models.Activity{}, err
	}
	i := s.find(id)
	if i < 0 || s.doc.Activities[i].IsDeleted() {
		return models.Activity{}, fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	return s.doc.Activities[i], nil
}

func (s *JSONStore) GetAllActivities() ([]models.Activity, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var out []models.Activity
	for _, a := range s.doc.Activities {
		if !a.IsDeleted() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *JSONStore) GetAllActivitiesIncludingDeleted() ([]models.Activity, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	out := make([]models.Activity, len(s.doc.Activities))
	copy(out, s.doc.Activities)
	return out, nil
}

func (s *JSONStore) UpdateActivity(a models.Activity) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	i := s.find(a.ID)
	if i < 0 || s.doc.Activities[i].IsDeleted() {
		return fmt.Errorf("%w: %s", models.ErrActivityNotFound, a.ID)
	}
	a.DeletedAt = nil
	s.doc.Activities[i] = a
	return s.save()
}

func (s *JSONStore) DeleteActivity(id models.ActivityID) error {
	if err := s.loaded(); err != nil {
		return err
	}
	i := s.find(id)
	if i < 0 || s.doc.Activities[i].IsDeleted() {
		return fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	s.doc.Activities[i].DeletedAt = &ts
	return s.save()
}

func (s *JSONStore) RestoreActivity(id models.ActivityID) error {
	if err := s.loaded(); err != nil {
		return err
	}
	i := s.find(id)
	if i < 0 || !s.doc.Activities[i].IsDeleted() {
		return fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	s.doc.Activities[i].DeletedAt = nil
	return s.save()
}

func (s *JSONStore) SaveActivities(acts []models.Activity) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, a := range acts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}

	keep := make(map[models.ActivityID]bool, len(acts))
	next := make([]models.Activity, 0, len(acts)+len(s.doc.Activities))
	for _, a := range acts {
		a.DeletedAt = nil
		keep[a.ID] = true
		next = append(next, a)
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	for _, a := range s.doc.Activities {
		if keep[a.ID] {
			continue
		}
		if !a.IsDeleted() {
			deletedAt := ts
			a.DeletedAt = &deletedAt
		}
		next = append(next, a)
	}
	s.doc.Activities = next
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
