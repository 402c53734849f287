package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/internal/config"
	"github.com/katalvlaran/detan/runner"
)

// report is what run prints, in either format.
type report struct {
	Name      string      `json:"name,omitempty"`
	Items     int         `json:"items"`
	Groups    int         `json:"groups"`
	Potential string      `json:"potential"`
	Runs      []runReport `json:"runs"`
}

type runReport struct {
	Job         int         `json:"job"`
	ID          uuid.UUID   `json:"id"`
	Temperature float64     `json:"temperature"`
	Rounds      int         `json:"rounds"`
	Steps       int         `json:"steps"`
	Retries     int         `json:"retries"`
	Converged   bool        `json:"converged"`
	Labels      []string    `json:"labels,omitempty"`
	Assignments [][]float64 `json:"assignments"`
	Error       string      `json:"error,omitempty"`
}

// newReport collects results; a nil result (job never started) is skipped.
// err is the joined RunAll error; each run carries its own message.
func newReport(p *config.Problem, rule *anneal.Rule, results []*runner.Result, err error) report {
	rep := report{
		Name:      p.Name,
		Items:     rule.Items(),
		Groups:    p.Groups,
		Potential: rule.Potential().String(),
	}
	for i, res := range results {
		if res == nil {
			continue
		}
		rr := runReport{
			Job:         i,
			ID:          res.ID,
			Temperature: res.State.Temperature(),
			Rounds:      res.Rounds,
			Steps:       res.Steps,
			Retries:     res.Retries,
			Converged:   res.Converged,
			Labels:      p.Labels,
			Assignments: res.State.Assignments().Slices(),
		}
		if err != nil {
			rr.Error = jobError(err, i)
		}
		rep.Runs = append(rep.Runs, rr)
	}

	return rep
}

// jobError picks the line of a joined RunAll error that belongs to job i.
func jobError(err error, i int) string {
	prefix := "job " + strconv.Itoa(i) + ": "
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}

	return ""
}

type printer interface {
	print(report) error
}

func newPrinter(format string, w io.Writer) (printer, error) {
	switch strings.ToLower(format) {
	case "text":
		return textPrinter{w: w}, nil
	case "json":
		return jsonPrinter{w: w}, nil
	default:
		return nil, fmt.Errorf("--format: unknown format %q", format)
	}
}

type jsonPrinter struct{ w io.Writer }

func (p jsonPrinter) print(r report) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

type textPrinter struct{ w io.Writer }

func (p textPrinter) print(r report) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	name := r.Name
	if name == "" {
		name = "problem"
	}
	fmt.Fprintf(tw, "%s: %d items, %d groups, %s potential\n", name, r.Items, r.Groups, r.Potential)
	for _, run := range r.Runs {
		fmt.Fprintf(tw, "\nrun %d  %s\n", run.Job, run.ID)
		fmt.Fprintf(tw, "temperature %g  rounds %d  steps %d  retries %d  converged %t\n",
			run.Temperature, run.Rounds, run.Steps, run.Retries, run.Converged)
		if run.Error != "" {
			fmt.Fprintf(tw, "error: %s\n", run.Error)
		}
		for i, row := range run.Assignments {
			label := strconv.Itoa(i)
			if i < len(run.Labels) {
				label = run.Labels[i]
			}
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			fmt.Fprintf(tw, "%s\t%s\n", label, strings.Join(cells, "\t"))
		}
	}

	return tw.Flush()
}
