package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/procviz/internal/engine"
	"github.com/me/procviz/internal/report"
	"github.com/me/procviz/internal/workload"
	"github.com/me/procviz/pkg/model"
)

func newSimulateCmd() *cobra.Command {
	var (
		policy  string
		quantum int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "simulate <workload>",
		Short: "Simulate a workload file locally",
		Long: "Simulate a YAML, JSON or CSV workload file with one scheduling policy.\n" +
			"The policy and quantum default to the values in the file, then to FCFS and 2.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			wl, err := workload.LoadFile(args[0])
			if err != nil {
				return err
			}

			name := wl.Policy
			if policy != "" {
				name = model.ParsePolicyName(policy)
			}
			if name == "" {
				name = model.PolicyFCFS
			}
			q := wl.Quantum
			if cmd.Flags().Changed("quantum") || q == 0 {
				q = quantum
			}

			logger.Debug("simulating", "workload", wl.Name, "policy", name, "quantum", q, "processes", len(wl.Processes))
			run, err := engine.SimulateNamed(wl.Processes, name, q)
			if err != nil {
				return err
			}
			return printRun(cmd.OutOrStdout(), fmt.Sprintf("%s: %s", wl.Name, name.Label()), run, output)
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", "", "Scheduling policy (fcfs, rr, sjf, priority)")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", model.DefaultQuantum, "Round Robin time quantum")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var quantum int

	cmd := &cobra.Command{
		Use:   "compare <workload>",
		Short: "Run every policy on a workload file and compare averages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := workload.LoadFile(args[0])
			if err != nil {
				return err
			}
			q := wl.Quantum
			if cmd.Flags().Changed("quantum") || q == 0 {
				q = quantum
			}

			runs := make([]*model.Run, 0, len(model.Policies))
			for _, p := range model.Policies {
				run, err := engine.SimulateNamed(wl.Processes, p, q)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				runs = append(runs, run)
			}

			out := cmd.OutOrStdout()
			report.Title(out, fmt.Sprintf("%s: %d processes", wl.Name, len(wl.Processes)))
			report.Comparison(out, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantum, "quantum", "q", model.DefaultQuantum, "Round Robin time quantum")

	return cmd
}
