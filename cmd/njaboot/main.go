package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"njaboot/internal/config"
	"njaboot/internal/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	storageFlag string
	apiURLFlag  string
	catalogFlag string

	// env is built by rootCmd before any subcommand runs.
	env *appEnv
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "njaboot",
	Short: "Njaboot Connect storefront client",
	Long: `njaboot drives the Njaboot Connect storefront from a terminal.

The cart and the signed-in profile are kept in local storage (SQLite file,
Redis or memory) and survive between invocations. Authentication goes
through the Njaboot auth API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if env != nil {
			return nil
		}
		_ = godotenv.Load()

		cfg, err := config.Read()
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := logger.ParseLevel(cfg.App.LogLevel)
		if verbose {
			level = zerolog.DebugLevel
		} else if level < zerolog.WarnLevel {
			level = zerolog.WarnLevel
		}
		log := logger.New(logger.Options{
			ServiceName: "njaboot",
			Level:       level,
			Format:      "console",
			Output:      cmd.ErrOrStderr(),
		})

		env, err = newEnv(cmd.Context(), cfg, log)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		err := env.Close()
		env = nil
		return err
	},
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Client.StorageDriver = storageFlag
	}
	if flags.Changed("api-url") {
		cfg.Client.APIURL = apiURLFlag
	}
	if flags.Changed("catalog") {
		cfg.Client.CatalogPath = catalogFlag
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Local storage driver: sqlite, redis or memory (or set NJABOOT_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Auth API base URL (or set NJABOOT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Product catalog YAML file (or set NJABOOT_CATALOG)")

	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd, cartShowCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(loyaltyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
