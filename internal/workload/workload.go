// Package workload loads process sets from YAML, JSON, and CSV files.
//
// YAML and JSON documents may also carry generator blocks whose fields are
// JavaScript expressions, evaluated once per generated process with
// `index` and `count` bound.
package workload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/me/procviz/internal/validate"
	"github.com/me/procviz/pkg/model"
)

// Format is a workload file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// maxGenerated bounds the processes a single generator may produce.
const maxGenerated = 10000

// Workload is a loaded, validated process set with optional run defaults.
type Workload struct {
	Name      string
	Policy    model.PolicyName
	Quantum   int
	Processes []model.Process
}

type document struct {
	Name      string      `yaml:"name" json:"name"`
	Policy    string      `yaml:"policy" json:"policy"`
	Quantum   int         `yaml:"quantum" json:"quantum"`
	Processes []entry     `yaml:"processes" json:"processes"`
	Generate  []generator `yaml:"generate" json:"generate"`
}

type entry struct {
	ID       string `yaml:"id" json:"id"`
	Arrival  int    `yaml:"arrival" json:"arrival"`
	Burst    int    `yaml:"burst" json:"burst"`
	Priority int    `yaml:"priority" json:"priority"`
}

// generator produces Count processes. Every field is an expression or a
// literal; ID defaults to the 1-based position.
type generator struct {
	Count    int    `yaml:"count" json:"count"`
	ID       string `yaml:"id" json:"id"`
	Arrival  string `yaml:"arrival" json:"arrival"`
	Burst    string `yaml:"burst" json:"burst"`
	Priority string `yaml:"priority" json:"priority"`
}

// DetectFormat picks a format from a file extension. Unknown extensions
// are treated as YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatYAML
	}
}

// LoadFile reads and parses a workload file.
func LoadFile(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload: %w", err)
	}
	w, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if w.Name == "" {
		w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w, nil
}

// Parse decodes data in the given format. The whole set is validated; a
// file with any invalid or duplicate process is rejected.
func Parse(data []byte, format Format) (*Workload, error) {
	var (
		w   *Workload
		err error
	)
	switch format {
	case FormatCSV:
		w, err = parseCSV(bytes.NewReader(data))
	case FormatJSON:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("parse JSON: %v", err))
		}
		w, err = doc.build()
	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("parse YAML: %v", err))
		}
		w, err = doc.build()
	default:
		return nil, fmt.Errorf("unknown workload format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := validate.Processes(w.Processes); err != nil {
		return nil, err
	}
	return w, nil
}

func (d *document) build() (*Workload, error) {
	w := &Workload{Name: d.Name, Quantum: d.Quantum}
	if d.Policy != "" {
		w.Policy = model.ParsePolicyName(d.Policy)
	}
	for _, e := range d.Processes {
		w.Processes = append(w.Processes, model.Process{
			ID:          e.ID,
			ArrivalTime: e.Arrival,
			BurstTime:   e.Burst,
			Priority:    e.Priority,
			State:       model.ProcessStateNew,
		})
	}
	if len(d.Generate) > 0 {
		ev := newEvaluator()
		for i, g := range d.Generate {
			procs, err := g.expand(ev, len(w.Processes))
			if err != nil {
				return nil, model.NewValidationError(fmt.Sprintf("generate[%d]: %v", i, err))
			}
			w.Processes = append(w.Processes, procs...)
		}
	}
	return w, nil
}

func (g generator) expand(ev *evaluator, offset int) ([]model.Process, error) {
	if g.Count <= 0 {
		return nil, errors.New("count must be greater than zero")
	}
	if g.Count > maxGenerated {
		return nil, fmt.Errorf("count %d exceeds the limit of %d", g.Count, maxGenerated)
	}
	if g.Burst == "" {
		return nil, errors.New("burst is required")
	}

	out := make([]model.Process, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		env := exprEnv{Index: i, Count: g.Count}
		p := model.Process{State: model.ProcessStateNew}

		var err error
		if g.ID == "" {
			p.ID = strconv.Itoa(offset + i + 1)
		} else if p.ID, err = ev.evaluateString(g.ID, env); err != nil {
			return nil, fmt.Errorf("id: %w", err)
		}
		if g.Arrival != "" {
			if p.ArrivalTime, err = ev.evaluateInt(g.Arrival, env); err != nil {
				return nil, fmt.Errorf("arrival: %w", err)
			}
		}
		if p.BurstTime, err = ev.evaluateInt(g.Burst, env); err != nil {
			return nil, fmt.Errorf("burst: %w", err)
		}
		if g.Priority != "" {
			if p.Priority, err = ev.evaluateInt(g.Priority, env); err != nil {
				return nil, fmt.Errorf("priority: %w", err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// parseCSV reads rows of id,arrival,burst[,priority]. A first row whose
// arrival column is not a number is taken as a header.
func parseCSV(r io.Reader) (*Workload, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("parse CSV: %v", err))
	}

	w := &Workload{}
	var errs []model.FieldError
	for i, rec := range records {
		if i == 0 && len(rec) > 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(rec[1])); err != nil {
				continue
			}
		}
		path := fmt.Sprintf("line %d", i+1)
		if len(rec) < 3 || len(rec) > 4 {
			errs = append(errs, model.FieldError{Path: path,
				Message: fmt.Sprintf("expected 3 or 4 columns, got %d", len(rec))})
			continue
		}
		in := model.ProcessInput{ID: rec[0], ArrivalTime: rec[1], BurstTime: rec[2]}
		if len(rec) == 4 {
			in.Priority = rec[3]
		}
		p, err := validate.ParseProcess(in)
		if err != nil {
			var apiErr *model.APIError
			if errors.As(err, &apiErr) {
				for _, fe := range apiErr.Details {
					fe.Path = path
					errs = append(errs, fe)
				}
				continue
			}
			return nil, err
		}
		w.Processes = append(w.Processes, p)
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError("Invalid CSV workload", errs...)
	}
	return w, nil
}
