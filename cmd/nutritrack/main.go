// Command nutritrack runs the nutrition tracker API and its maintenance tasks.
//
//	nutritrack serve             # start the HTTP server (alias: run)
//	nutritrack migrate           # run pending migrations
//	nutritrack migrate:rollback  # roll back the last batch
//	nutritrack migrate:status    # list ran / pending migrations
//	nutritrack seed              # insert the demo user and meals
//	nutritrack route:list        # print the route table
//	nutritrack token:prune       # delete expired access tokens
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "nutritrack",
	Short:         "Nutrition tracker API",
	Long:          "nutritrack serves the meal library and today-list API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenPruneCmd)
}
