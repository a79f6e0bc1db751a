package cli

import "github.com/spf13/cobra"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("sercha-federation %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
