package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/thaliabank/corebank/internal/adapter/repository/postgres"
	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/infrastructure/config"
	"github.com/thaliabank/corebank/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

// seedCharts is the default chart of accounts, one account per category.
var seedCharts = []domain.ChartOfAccount{
	{Code: "1000", Name: "Cash and Cash Equivalents", Category: domain.CategoryAsset, Currency: "USD"},
	{Code: "2000", Name: "Customer Deposits", Category: domain.CategoryLiability, Currency: "USD"},
	{Code: "3000", Name: "Shareholder Equity", Category: domain.CategoryEquity, Currency: "USD"},
	{Code: "4000", Name: "Fee Income", Category: domain.CategoryIncome, Currency: "USD"},
	{Code: "5000", Name: "Operating Expenses", Category: domain.CategoryExpense, Currency: "USD"},
	{Code: "9000", Name: "Memoranda", Category: domain.CategoryMemoranda, Currency: "USD"},
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "corebank-cli",
		Short: "Corebank CLI tool",
		Long:  `A command line interface for operating the corebank ledger service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the corebank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	var migrationsPath string
	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(migrationsPath, true)
		},
	}
	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(migrationsPath, false)
		},
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	// Chart of accounts seeding
	seedCmd := &cobra.Command{
		Use:   "seed-chart",
		Short: "Seed the default chart of accounts",
		Run: func(cmd *cobra.Command, args []string) {
			seedChartOfAccounts()
		},
	}
	rootCmd.AddCommand(seedCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check double-entry balance and cache drift",
		Run: func(cmd *cobra.Command, args []string) {
			verifyLedger()
		},
	}

	var rebuildAccountID string
	rebuildCmd := &cobra.Command{
		Use:   "rebuild-balance",
		Short: "Rebuild one account's cached balance from the ledger",
		Run: func(cmd *cobra.Command, args []string) {
			rebuildBalance(rebuildAccountID)
		},
	}
	rebuildCmd.Flags().StringVar(&rebuildAccountID, "account", "", "Account ID to rebuild")
	rebuildCmd.MarkFlagRequired("account")

	ledgerCmd.AddCommand(verifyCmd, rebuildCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMigrations(path string, up bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if up {
		err = postgres.RunMigrations(cfg.DatabaseURL, path)
	} else {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, path)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migration complete")
}

func seedChartOfAccounts() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 2, 1)
	if err != nil {
		fmt.Printf("Failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	chartRepo := postgresRepo.NewChartRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	for _, coa := range seedCharts {
		coa.ID = idGen.Generate()
		if err := chartRepo.Create(ctx, &coa); err != nil {
			fmt.Printf("Failed to seed %s (%s): %v\n", coa.Code, coa.Category, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %s %s (%s)\n", coa.Code, coa.Name, coa.Category)
	}
}

func verifyLedger() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/verify")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	consistent, _ := result["consistent"].(bool)
	if !consistent {
		fmt.Printf("Ledger INCONSISTENT\nResponse: %s\n", string(body))
		os.Exit(1)
	}

	fmt.Println("Ledger consistent")
}

func rebuildBalance(accountID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/ledger/rebuild?account_id="+accountID, "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Rebuild FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Rebuild complete: %s\n", string(body))
}
