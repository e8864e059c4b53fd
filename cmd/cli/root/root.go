package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "projtrack",
	Short: "Projects Tracker CLI",
	Long:  "Command line interface for interacting with the Projects Tracker API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command.
func GetRoot() *cobra.Command {
	return RootCmd
}
