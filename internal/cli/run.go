package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/procviz/pkg/model"
)

func newRunCmd() *cobra.Command {
	var (
		policy  string
		quantum int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "run <workspace>",
		Short: "Run a workspace's simulation on the server",
		Long: "Run the workspace's process list under its selected policy. With --policy or\n" +
			"--quantum the selection is changed first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			base := "/api/v1/workspaces/" + args[0]

			if policy != "" || quantum != 0 {
				sel := map[string]any{"quantum": quantum}
				if policy != "" {
					sel["policy"] = model.ParsePolicyName(policy)
				} else {
					ws, err := client.workspace(args[0])
					if err != nil {
						return fmt.Errorf("get workspace: %w", err)
					}
					sel["policy"] = ws.Policy
				}
				if _, err := client.Put(base+"/policy", sel); err != nil {
					return fmt.Errorf("select policy: %w", err)
				}
			}

			resp, err := client.Post(base+"/run", nil)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			var ws model.Workspace
			if err := resp.decode(&ws); err != nil {
				return err
			}
			if ws.LastRun == nil {
				return fmt.Errorf("run: server returned no result")
			}
			return printRun(cmd.OutOrStdout(), ws.LastRun.Policy.Label(), ws.LastRun, output)
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", "", "Select this policy before running")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Select this Round Robin quantum before running")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")

	return cmd
}
