package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/glucosim/internal/loop"
	"github.com/san-kum/glucosim/internal/report"
)

// Store keeps finished runs under a base directory, one subdirectory per
// run with metadata.json and results.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Timestamp  time.Time `json:"timestamp"`
	Controller string    `json:"controller"`
	Seed       int64     `json:"seed"`
	Steps      int       `json:"steps"`
	MeanCGM    float64   `json:"mean_cgm"`
	MinCGM     float64   `json:"min_cgm"`
	MaxCGM     float64   `json:"max_cgm"`
}

// Save writes one run to the store and returns its ID.
func (s *Store) Save(subject, controller string, seed int64, result *loop.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", sanitize(subject), uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Subject:    subject,
		Timestamp:  time.Now(),
		Controller: controller,
		Seed:       seed,
		Steps:      len(result.Records),
		MeanCGM:    result.Summary.Mean,
		MinCGM:     result.Summary.Min,
		MaxCGM:     result.Summary.Max,
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), metaData, 0644); err != nil {
		return "", err
	}

	csv := report.NewCSVFile(filepath.Join(runDir, "results.csv"))
	if err := csv.WriteRecords(result.Records); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns metadata for every readable run in the store.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load returns the metadata for one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reparses the stored record table for one run.
func (s *Store) LoadRecords(runID string) ([]loop.StepRecord, error) {
	return report.ReadCSV(filepath.Join(s.baseDir, runID, "results.csv"))
}

func sanitize(subject string) string {
	r := strings.NewReplacer("#", "-", "/", "-", " ", "-")
	return r.Replace(subject)
}
