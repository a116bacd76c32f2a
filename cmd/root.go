package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogdemo/config"
	"catalogdemo/database"
	"catalogdemo/demo"
	"catalogdemo/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	verbose  bool
	seedFile string

	settings *config.Settings
	log      *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogdemo",
	Short: "Product catalog on MongoDB",
	Long: `catalogdemo stores chocolate products in MongoDB.
Without a subcommand it runs the walkthrough script: create, find, update,
aggregate and delete, logging every result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		if err := config.LoadEnv(files...); err != nil {
			return err
		}

		s, err := config.NewSettings()
		if err != nil {
			return err
		}
		if verbose {
			s.Log.Level = "debug"
		}

		l, err := logger.Init(s.Log)
		if err != nil {
			return err
		}
		settings, log = s, l
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := demo.LoadSeed(seedFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := connect(ctx); err != nil {
			return err
		}
		defer disconnect()

		return demo.New(database.Products, seed, log).Run(ctx)
	},
}

func connect(ctx context.Context) error {
	if _, err := database.ConnectMongo(ctx, settings); err != nil {
		return err
	}
	if err := database.InitCollections(ctx); err != nil {
		disconnect()
		return fmt.Errorf("failed to initialize collections: %w", err)
	}
	return nil
}

func disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = database.Disconnect(ctx)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.WithError(err).Error("catalogdemo failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&seedFile, "seed", "", "YAML file with the sample products (default built-in catalog)")
}
