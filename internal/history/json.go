package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"textchecker/internal/models"
)

// JSONStore keeps the most recent records and the running aggregates in a
// single JSON file. Every Record rewrites the file.
type JSONStore struct {
	filePath string
	capacity int
	mu       sync.RWMutex
	data     *jsonData
}

// jsonData represents the structure of data stored in JSON format
type jsonData struct {
	Records     []models.CheckRecord `json:"records"`
	Stats       *models.CheckStats   `json:"stats"`
	LastUpdated time.Time            `json:"last_updated"`
}

// NewJSONStore opens or creates the history file at filePath, retaining up to
// capacity records.
func NewJSONStore(filePath string, capacity int) (*JSONStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required for JSON history")
	}
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}

	store := &JSONStore{filePath: filePath, capacity: capacity}

	if err := store.ensureFileExists(); err != nil {
		return nil, fmt.Errorf("failed to ensure file exists: %w", err)
	}
	if err := store.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return store, nil
}

// ensureFileExists creates the JSON file with empty data if it doesn't exist
func (j *JSONStore) ensureFileExists() error {
	if _, err := os.Stat(j.filePath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(j.filePath), 0o700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return j.saveData(&jsonData{Records: []models.CheckRecord{}, Stats: newStats()})
	}
	return nil
}

func (j *JSONStore) loadData() error {
	fileData, err := os.ReadFile(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data jsonData
	if err := json.Unmarshal(fileData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if data.Stats == nil {
		data.Stats = newStats()
	}
	if data.Stats.ByLanguage == nil {
		data.Stats.ByLanguage = make(map[string]int64)
	}

	j.data = &data
	return nil
}

// saveData writes data to a temporary file and renames it over the history
// file so readers never observe a partial write.
func (j *JSONStore) saveData(data *jsonData) error {
	data.LastUpdated = time.Now().UTC()

	fileData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmp := j.filePath + ".tmp"
	if err := os.WriteFile(tmp, fileData, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, j.filePath); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

func (j *JSONStore) Record(ctx context.Context, rec *models.CheckRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.data.Records = append(j.data.Records, *rec)
	if over := len(j.data.Records) - j.capacity; over > 0 {
		j.data.Records = j.data.Records[over:]
	}

	j.data.Stats.TotalChecks++
	j.data.Stats.TotalCorrections += int64(rec.Corrections)
	if rec.Fallback {
		j.data.Stats.FallbackChecks++
	}
	j.data.Stats.ByLanguage[rec.Language]++

	return j.saveData(j.data)
}

func (j *JSONStore) Stats(ctx context.Context) (*models.CheckStats, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := *j.data.Stats
	out.ByLanguage = make(map[string]int64, len(j.data.Stats.ByLanguage))
	for lang, n := range j.data.Stats.ByLanguage {
		out.ByLanguage[lang] = n
	}
	return &out, nil
}

// Len returns the number of retained records.
func (j *JSONStore) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.data.Records)
}

// Ping checks that the history file is still readable.
func (j *JSONStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(j.filePath); err != nil {
		return fmt.Errorf("history file unavailable: %w", err)
	}
	return nil
}

func (j *JSONStore) Backend() string { return models.HistoryTypeJSON }

func (j *JSONStore) Close() error { return nil }

var _ Store = (*JSONStore)(nil)
