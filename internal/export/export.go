package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/odeint/ode/solver"
)

// Meta identifies the run a trajectory came from.
type Meta struct {
	Field  string  `json:"field"`
	Method string  `json:"method"`
	Rtol   float64 `json:"rtol"`
	Atol   float64 `json:"atol"`
}

// Data is the JSON export shape: run metadata, work counters and the
// full trajectory.
type Data struct {
	Meta
	Steps   int         `json:"steps"`
	Rejects int         `json:"rejects"`
	Evals   int         `json:"evals"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
}

func JSON(w io.Writer, meta Meta, sol *solver.Solution) error {
	data := Data{
		Meta:    meta,
		Steps:   sol.Stats.Steps,
		Rejects: sol.Stats.Rejects,
		Evals:   sol.Stats.Evals,
		Times:   sol.T,
		States:  make([][]float64, len(sol.Y)),
	}
	for i, y := range sol.Y {
		data.States[i] = y
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func JSONFile(path string, meta Meta, sol *solver.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return JSON(file, meta, sol)
}

// CSV writes the trajectory as time,x0,x1,... rows. Values use the
// shortest exact decimal form so small magnitudes survive the trip.
func CSV(w io.Writer, sol *solver.Solution) error {
	if len(sol.Y) == 0 {
		return fmt.Errorf("no data to export")
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time"}
	for i := range sol.Y[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, y := range sol.Y {
		row := []string{strconv.FormatFloat(sol.T[i], 'g', -1, 64)}
		for _, v := range y {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func CSVFile(path string, sol *solver.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return CSV(file, sol)
}
