package cmd

import (
	"github.com/spf13/cobra"

	"github.com/osaleh99/doc-chat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure docchat and generates a .docchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
