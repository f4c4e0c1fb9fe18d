package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scene     string
	SceneFile string
	Seed      int64
	FixedStep float64
	Duration  float64
	FrameRate float64
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	SceneFile string             `json:"scene_file,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FixedStep float64            `json:"fixed_step"`
	Duration  float64            `json:"duration"`
	FrameRate float64            `json:"frame_rate"`
	Steps     int                `json:"steps"`
	Dropped   uint64             `json:"dropped"`
	Entities  int                `json:"entities"`
	Checksum  string             `json:"checksum"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", info.Scene, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     info.Scene,
		SceneFile: info.SceneFile,
		Timestamp: time.Now(),
		Seed:      info.Seed,
		FixedStep: info.FixedStep,
		Duration:  info.Duration,
		FrameRate: info.FrameRate,
		Steps:     result.Steps,
		Dropped:   result.Dropped,
		Checksum:  fmt.Sprintf("%016x", result.Checksum()),
		Metrics:   result.Metrics,
	}
	if f, ok := result.Final(); ok {
		meta.Entities = len(f.Entities)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteStates(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteStates writes one row per frame: the time followed by x, y, z of
// every entity present in the first frame.
func WriteStates(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if len(result.Frames) == 0 {
		return nil
	}

	first := result.Frames[0]
	header := []string{"time"}
	for _, es := range first.Entities {
		id := strconv.FormatUint(uint64(es.ID), 10)
		header = append(header, "e"+id+"_x", "e"+id+"_y", "e"+id+"_z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, frame := range result.Frames {
		row := []string{strconv.FormatFloat(frame.Time, 'f', 6, 64)}
		for _, es := range first.Entities {
			p, ok := position(frame, es.ID)
			if !ok {
				row = append(row, "", "", "")
				continue
			}
			row = append(row,
				strconv.FormatFloat(p[0], 'f', 6, 64),
				strconv.FormatFloat(p[1], 'f', 6, 64),
				strconv.FormatFloat(p[2], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func position(f sim.Frame, id scene.ID) ([3]float64, bool) {
	for _, es := range f.Entities {
		if es.ID == id {
			return es.Position.Array(), true
		}
	}
	return [3]float64{}, false
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads states.csv back as per-frame rows of entity coordinates
// and the matching times. Blank cells read as NaN.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for _, cell := range record[1:] {
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				val = math.NaN()
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}
