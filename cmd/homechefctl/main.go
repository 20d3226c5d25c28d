// Command homechefctl runs maintenance tasks against the marketplace
// database: schema migration, demo data and chef earnings reports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "homechefctl",
	Short: "Maintenance commands for the HomeChef marketplace",
	Long: `homechefctl works on the database named by DATABASE_URL (read from the
environment or a .env file).

Commands:
  migrate   - Create or update tables and indexes
  seed      - Insert demo chefs, dishes and a customer
  earnings  - Print a chef's delivered-order earnings`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd, seedCmd, earningsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
