package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/me/procviz/internal/report"
	"github.com/me/procviz/pkg/model"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func checkOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// printRun writes a run in the requested format.
func printRun(w io.Writer, title string, run *model.Run, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(run); err != nil {
			return err
		}
		return enc.Close()
	}

	report.Title(w, title)
	fmt.Fprintln(w)
	report.Results(w, run)
	fmt.Fprintln(w)
	report.Gantt(w, run.Timeline)
	fmt.Fprintln(w)
	report.Summary(w, run)
	return nil
}
