package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/wavesurf/internal/frames"
)

// Store records finished exports under a base directory, one directory
// per run holding metadata.json and stats.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Pattern   string        `json:"pattern"`
	Output    string        `json:"output"`
	Encoder   string        `json:"encoder"`
	FPS       int           `json:"fps"`
	Frames    int           `json:"frames"`
	Grid      string        `json:"grid"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Elapsed   time.Duration `json:"elapsed"`
	MinHeight float64       `json:"min_height"`
	MaxHeight float64       `json:"max_height"`
}

// Save writes meta and the per-frame stats and returns the run id.
func (s *Store) Save(meta RunMetadata, paths []string, stats []frames.Stats) (string, error) {
	if len(paths) != len(stats) {
		return "", fmt.Errorf("storage: %d paths for %d stats", len(paths), len(stats))
	}
	meta.MinHeight, meta.MaxHeight = finite(meta.MinHeight), finite(meta.MaxHeight)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	stem := strings.TrimSuffix(filepath.Base(meta.Output), filepath.Ext(meta.Output))
	meta.ID = fmt.Sprintf("%s_%d", stem, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: %s: %w", meta.ID, err)
	}
	if err := writeStats(filepath.Join(runDir, "stats.csv"), paths, stats); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: %s: %w", meta.ID, err)
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return file.Close()
}

func writeStats(path string, paths []string, stats []frames.Stats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"frame", "path", "min", "max", "mean"}); err != nil {
		return err
	}
	for i, st := range stats {
		row := []string{
			strconv.Itoa(i),
			paths[i],
			strconv.FormatFloat(st.Min, 'f', 6, 64),
			strconv.FormatFloat(st.Max, 'f', 6, 64),
			strconv.FormatFloat(st.Mean, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// List returns recorded runs, oldest first. A missing base directory is an
// empty history.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStats reads back the per-frame stats of a run.
func (s *Store) LoadStats(runID string) ([]string, []frames.Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []string{}, []frames.Stats{}, nil
	}

	paths := make([]string, 0, len(records)-1)
	stats := make([]frames.Stats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 5 {
			return nil, nil, fmt.Errorf("storage: %s: malformed stats row %v", runID, record)
		}
		var vals [3]float64
		for k := range vals {
			v, err := strconv.ParseFloat(record[2+k], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s: %w", runID, err)
			}
			vals[k] = v
		}
		paths = append(paths, record[1])
		stats = append(stats, frames.Stats{Min: vals[0], Max: vals[1], Mean: vals[2]})
	}

	return paths, stats, nil
}

// finite maps NaN and infinities to zero; JSON has no encoding for them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
