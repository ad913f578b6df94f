package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sebastianszewc/localchat/internal/llm"
)

func modelsCmd() *cobra.Command {
	var setDefault string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available Ollama models",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			if setDefault != "" {
				a.loader.SaveDefaultModel(setDefault)
				fmt.Printf("default model set to %s\n", setDefault)
				return nil
			}

			current := a.loader.Settings().DefaultModel
			for _, name := range llm.ListModels(cmd.Context(), flagBaseURL) {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&setDefault, "set-default", "", "save the default model and exit")
	return cmd
}
