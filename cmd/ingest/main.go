package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"newschat/internal/di"
	"newschat/internal/infra"
	"newschat/internal/infra/config"
	"newschat/internal/infra/logger"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Feed ingestion operations for the news index",
	Long: `ingest runs one-off ingestion operations against the article index.

Example usage:
  ingest refresh               # Collect configured feeds and upsert new articles
  ingest rebuild               # Clear the index and re-ingest from scratch`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Collect configured feeds and ingest new articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *di.ApplicationComponents) (int, error) {
			return c.IngestUsecase.Refresh(ctx)
		})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Clear the index and re-ingest everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *di.ApplicationComponents) (int, error) {
			return c.IngestUsecase.Rebuild(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall operation timeout")
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(rebuildCmd)
}

func runIngest(op func(context.Context, *di.ApplicationComponents) (int, error)) error {
	cfg := config.Load()
	log := logger.New()
	slog.SetDefault(log)

	if len(cfg.Ingest.Feeds) == 0 {
		return fmt.Errorf("no feeds configured, set INGEST_FEEDS")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	dbPool, err := infra.NewPostgresDB(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer dbPool.Close()

	components := di.NewApplicationComponents(cfg, dbPool, log)

	stored, err := op(ctx, components)
	if err != nil {
		return err
	}

	fmt.Printf("Ingestion complete. Stored: %d\n", stored)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
