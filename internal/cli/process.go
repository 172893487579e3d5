package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/procviz/internal/report"
	"github.com/me/procviz/internal/workload"
	"github.com/me/procviz/pkg/model"
)

func newAddCmd() *cobra.Command {
	var (
		in      model.ProcessInput
		file    string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "add <workspace>",
		Short: "Add a process, or import a workload file, into a workspace",
		Example: "  procviz add ws_123 --id 1 --arrival 0 --burst 5\n" +
			"  procviz add ws_123 --file textbook.yaml --replace",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/workspaces/" + args[0] + "/processes"

			var body any = in
			if file != "" {
				wl, err := workload.LoadFile(file)
				if err != nil {
					return err
				}
				body = map[string]any{"processes": wl.Processes, "replace": replace}
			}

			resp, err := client.Post(path, body)
			if err != nil {
				return fmt.Errorf("add process: %w", err)
			}
			var ws model.Workspace
			if err := resp.decode(&ws); err != nil {
				return err
			}
			report.Processes(cmd.OutOrStdout(), ws.Processes)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ID, "id", "", "Process ID")
	cmd.Flags().StringVar(&in.ArrivalTime, "arrival", "", "Arrival time")
	cmd.Flags().StringVar(&in.BurstTime, "burst", "", "Burst time")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "Priority (lower runs first)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Import a YAML, JSON or CSV workload file")
	cmd.Flags().BoolVar(&replace, "replace", false, "With --file, replace the existing list")
	cmd.MarkFlagsMutuallyExclusive("file", "id")

	return cmd
}

func newRemoveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "remove <workspace> [process-id]",
		Short: "Remove one process, or all with --all",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/workspaces/" + args[0] + "/processes"
			switch {
			case all:
			case len(args) == 2:
				path += "/" + args[1]
			default:
				return fmt.Errorf("a process id or --all is required")
			}

			resp, err := client.Delete(path)
			if err != nil {
				return fmt.Errorf("remove process: %w", err)
			}
			var ws model.Workspace
			if err := resp.decode(&ws); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ws.Processes) == 0 {
				fmt.Fprintln(out, "No processes.")
				return nil
			}
			report.Processes(out, ws.Processes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every process")

	return cmd
}
