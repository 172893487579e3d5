package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/me/procviz/pkg/model"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the server's scheduling policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/policies")
			if err != nil {
				return err
			}
			var menu []model.PolicyInfo
			if err := resp.decode(&menu); err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Label", "Enabled", "Quantum"})
			table.SetAutoWrapText(false)
			for _, p := range menu {
				table.Append([]string{string(p.Name), p.Label, yesNo(p.Enabled), yesNo(p.UsesQuantum)})
			}
			table.Render()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
