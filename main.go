package main

import (
	"os"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Portfolio contact page and mail relay",
	Long: `relay serves the portfolio contact page and POST /api/contact, which
forwards each contact submission to the site owner by email.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	rootCmd.AddCommand(serveCmd, sendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
