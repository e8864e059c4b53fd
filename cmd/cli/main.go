package main

import (
	"fmt"
	"os"

	"github.com/jtallman/projtrack/cmd/cli/auth"
	"github.com/jtallman/projtrack/cmd/cli/projects"
	"github.com/jtallman/projtrack/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	projects.InitProjects(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
