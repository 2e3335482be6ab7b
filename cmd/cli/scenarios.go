package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iiot-responder/internal/app"
	"iiot-responder/internal/dataset"
)

func newScenariosCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "列出可用场景",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var list []remoteScenario
			if base := apiBaseURL(root.apiURL); base != "" {
				var err error
				if list, err = listScenariosRemote(ctx, base); err != nil {
					return err
				}
			} else {
				cfg, shutdown, err := loadConfig(ctx, root.configPath)
				if err != nil {
					return err
				}
				defer shutdown()
				infos, err := app.NewScenarioService(dataset.NewSource(cfg.Data.Root)).ListScenarios(ctx)
				if err != nil {
					return err
				}
				for _, info := range infos {
					list = append(list, remoteScenario{Name: info.Name, Description: info.Description, Label: info.Label})
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				fmt.Fprintln(out, prettyJSON(list))
				return nil
			}
			for _, s := range list {
				fmt.Fprintf(out, "%s  %s\n", boldStyle.Render(s.Name), mutedStyle.Render(s.Description))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}
