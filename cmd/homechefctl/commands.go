package main

import (
	"errors"
	"fmt"
	"time"

	"homechef/pkg/config"
	"homechef/pkg/database"
	"homechef/pkg/logger"
	"homechef/pkg/models"
	"homechef/pkg/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	chefEmail string
	month     string
)

// connect loads configuration and opens the database.
func connect() (*gorm.DB, error) {
	config.LoadConfig()
	if err := database.InitDatabase(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer database.CloseDatabase()
		return database.AutoMigrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo chefs, dishes and a customer",
	Long: `Insert demo data. Existing accounts are skipped, so the command can be
run repeatedly. Every demo account uses the password ` + database.SeedPassword + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer database.CloseDatabase()
		return database.Seed(db)
	},
}

var earningsCmd = &cobra.Command{
	Use:   "earnings",
	Short: "Print a chef's delivered-order earnings",
	Long: `Print the all-time and monthly earnings of a chef.

Examples:
  homechefctl earnings --chef meera@homechef.local
  homechefctl earnings --chef meera@homechef.local --month 2026-09`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chefEmail == "" {
			return errors.New("--chef is required")
		}
		at := time.Now()
		if month != "" {
			parsed, err := time.ParseInLocation("2006-01", month, time.Local)
			if err != nil {
				return fmt.Errorf("--month must look like 2026-09: %w", err)
			}
			at = parsed
		}

		db, err := connect()
		if err != nil {
			return err
		}
		defer database.CloseDatabase()
		return printEarnings(cmd, db, chefEmail, at)
	},
}

func printEarnings(cmd *cobra.Command, db *gorm.DB, email string, at time.Time) error {
	var chef models.User
	err := db.Where("email = ? AND role = ?", services.NormalizeEmail(email), models.RoleChef).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no chef with email %s", email)
	}
	if err != nil {
		return err
	}

	orders := services.NewOrderService(db, logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"}))
	earnings, err := orders.ComputeEarnings(&chef, at)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Chef:      %s <%s>\n", chef.Name, chef.Email)
	fmt.Fprintf(out, "All time:  %s\n", services.FormatAmount(earnings.AllTime))
	fmt.Fprintf(out, "%s:  %s\n", at.Format("Jan 2006"), services.FormatAmount(earnings.ThisMonth))
	return nil
}

func init() {
	earningsCmd.Flags().StringVar(&chefEmail, "chef", "", "Email of the chef")
	earningsCmd.Flags().StringVar(&month, "month", "", "Month to report as YYYY-MM (default: current month)")
}
