package cli

import (
	"fmt"
	"os"

	"medialibrary_backend/internals/configs"

	"github.com/spf13/cobra"
)

var (
	flagPort     string
	flagDBDriver string
)

var rootCmd = &cobra.Command{
	Use:   "medialibrary",
	Short: "Media library backend: katalog, peminjaman, dan langganan",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configs.LoadEnv()
		if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
			configs.BindFlag("PORT", f)
		}
		if f := cmd.Flags().Lookup("db-driver"); f != nil && f.Changed {
			configs.BindFlag("DB_DRIVER", f)
		}
	},
	// tanpa subcommand = serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBDriver, "db-driver", "", "driver database: postgres | sqlite (default: env DB_DRIVER)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "port HTTP (default: env PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
