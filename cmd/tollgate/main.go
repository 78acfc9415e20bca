package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "tollgate",
	Short:   "Token-gated gateway in front of an S3-compatible object store",
	Long: `Tollgate is a lightweight gateway that mediates client access to a
backing S3-compatible object store. Reads and writes are authorized by
short-lived signed tokens minted by admin-only control endpoints, so
clients never see the store's credentials.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
