package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/procviz/internal/report"
	"github.com/me/procviz/pkg/model"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces on a procviz server",
	}
	cmd.AddCommand(
		newWorkspaceCreateCmd(),
		newWorkspaceListCmd(),
		newWorkspaceShowCmd(),
		newWorkspaceDeleteCmd(),
	)
	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/workspaces", map[string]string{"name": name})
			if err != nil {
				return fmt.Errorf("create workspace: %w", err)
			}
			var ws model.Workspace
			if err := resp.decode(&ws); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ws.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Workspace name")
	return cmd
}

func newWorkspaceListCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspaces, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get(fmt.Sprintf("/api/v1/workspaces?limit=%d&offset=%d", limit, offset))
			if err != nil {
				return fmt.Errorf("list workspaces: %w", err)
			}
			var list []*model.Workspace
			if err := resp.decode(&list); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No workspaces found.")
				return nil
			}
			report.Workspaces(out, list, time.Now())
			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(list), resp.Pagination.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of workspaces")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of workspaces to skip")
	return cmd
}

func newWorkspaceShowCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <workspace>",
		Short: "Show a workspace's processes and latest run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			ws, err := client.workspace(args[0])
			if err != nil {
				return fmt.Errorf("get workspace: %w", err)
			}

			out := cmd.OutOrStdout()
			if output != outputTable {
				return printRun(out, "", ws.LastRun, output)
			}

			title := ws.ID
			if ws.Name != "" {
				title = fmt.Sprintf("%s (%s)", ws.Name, ws.ID)
			}
			report.Title(out, title)
			fmt.Fprintf(out, "Policy: %s", ws.Policy.Label())
			if ws.Policy.UsesQuantum() {
				fmt.Fprintf(out, ", quantum %d", ws.Quantum)
			}
			fmt.Fprintln(out)
			report.Processes(out, ws.Processes)
			if ws.LastRun == nil {
				fmt.Fprintln(out, "No simulation has been run.")
				return nil
			}
			fmt.Fprintln(out)
			return printRun(out, "Latest run: "+ws.LastRun.Policy.Label(), ws.LastRun, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format for the latest run (table, json, yaml)")
	return cmd
}

func newWorkspaceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workspace>",
		Short: "Delete a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete("/api/v1/workspaces/" + args[0]); err != nil {
				return fmt.Errorf("delete workspace: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workspace %s deleted.\n", args[0])
			return nil
		},
	}
}
