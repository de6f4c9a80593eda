package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"sinag/internal/config"
	"sinag/pkg/bootstrap"
	"sinag/pkg/migrations"
)

const migrateTimeout = 2 * time.Minute

func migrateCmd(opts *rootOptions) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to service config file (required)")
	_ = cmd.MarkPersistentFlagRequired("config")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending PostgreSQL migrations and create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabases(cmd.Context(), opts, configFile, func(ctx context.Context, dc *bootstrap.DatabaseConnector, db *sql.DB) error {
				if err := migrations.MigratePostgresUp(db); err != nil {
					return err
				}
				dc.Logger.InfowCtx(ctx, "PostgreSQL migrations applied")

				mongoClient, err := dc.InitMongoDB(ctx)
				if err != nil {
					return err
				}
				if mongoClient == nil {
					return nil
				}
				defer mongoClient.Disconnect(context.Background())

				_, err = dc.MongoDatabase(ctx, mongoClient)
				return err
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabases(cmd.Context(), opts, configFile, func(ctx context.Context, dc *bootstrap.DatabaseConnector, db *sql.DB) error {
				if err := migrations.MigratePostgresDown(db, steps); err != nil {
					return err
				}
				dc.Logger.InfowCtx(ctx, "PostgreSQL migrations rolled back", "steps", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 rolls back all)")

	cmd.AddCommand(up, down)
	return cmd
}

func withDatabases(ctx context.Context, opts *rootOptions, configFile string, fn func(context.Context, *bootstrap.DatabaseConnector, *sql.DB) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	// Migrations run here explicitly, never as a side effect of connecting.
	cfg.Database.RunMigrations = false

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	dc := bootstrap.NewDatabaseConnector(cfg, opts.logger())
	db, err := dc.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("database.postgres.host is required")
	}
	defer db.Close()

	return fn(ctx, dc, db)
}
