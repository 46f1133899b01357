package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
)

// Archive keeps completed runs on disk, one directory per run holding
// meta.json and trajectory.csv, so results can be listed and re-plotted
// later without re-integrating.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// RunMeta is the archived identity of a run: where it came from and how
// much work it took. The trajectory itself lives in trajectory.csv.
type RunMeta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Meta
	Steps   int `json:"steps"`
	Rejects int `json:"rejects"`
	Evals   int `json:"evals"`
}

// Save archives the solution under a fresh run ID and returns it.
func (a *Archive) Save(meta Meta, sol *solver.Solution) (string, error) {
	if len(sol.Y) == 0 {
		return "", fmt.Errorf("no data to archive")
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", err
	}

	id := fmt.Sprintf("%s-%s", meta.Field, time.Now().UTC().Format("20060102-150405"))
	runDir := filepath.Join(a.dir, id)
	for n := 2; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runDir = filepath.Join(a.dir, fmt.Sprintf("%s.%d", id, n))
	}
	id = filepath.Base(runDir)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	rm := RunMeta{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Meta:      meta,
		Steps:     sol.Stats.Steps,
		Rejects:   sol.Stats.Rejects,
		Evals:     sol.Stats.Evals,
	}
	metaFile, err := os.Create(filepath.Join(runDir, "meta.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rm); err != nil {
		return "", err
	}

	if err := CSVFile(filepath.Join(runDir, "trajectory.csv"), sol); err != nil {
		return "", err
	}
	return id, nil
}

// List returns the metadata of every archived run, oldest first.
// Directories without a readable meta.json are skipped.
func (a *Archive) List() ([]RunMeta, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMeta
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.dir, entry.Name(), "meta.json"))
		if err != nil {
			continue
		}
		var rm RunMeta
		if err := json.Unmarshal(data, &rm); err != nil {
			continue
		}
		runs = append(runs, rm)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Load reads the metadata of one archived run.
func (a *Archive) Load(id string) (*RunMeta, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, id, "meta.json"))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	var rm RunMeta
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &rm, nil
}

// LoadTrajectory reads an archived trajectory back into a Solution.
// Work counters are not part of the trajectory file; see Load.
func (a *Archive) LoadTrajectory(id string) (*solver.Solution, error) {
	file, err := os.Open(filepath.Join(a.dir, id, "trajectory.csv"))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: empty trajectory", id)
	}

	sol := &solver.Solution{
		T: make([]float64, 0, len(records)-1),
		Y: make([]ode.State, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("run %s: malformed trajectory row", id)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad time %q", id, rec[0])
		}
		y := make(ode.State, len(rec)-1)
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad value %q", id, cell)
			}
			y[j] = v
		}
		sol.T = append(sol.T, t)
		sol.Y = append(sol.Y, y)
	}
	return sol, nil
}
