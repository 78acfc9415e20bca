package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tollgate/tollgate/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <key> [key...]",
	Aliases: []string{"rm"},
	Short:   "Delete objects from the gateway",
	Long: `Delete one or more objects from the gateway.

Examples:
  tollgate-cli delete docs/report.pdf
  tollgate-cli rm old/a.txt old/b.txt old/c.txt
  tollgate-cli delete -q temp/file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DeleteOptions{
		Keys: args,
	}

	results, err := client.Delete(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	if err := formatter.FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
