package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tollgate/tollgate/clientcli"
)

var (
	linkDownload bool
	linkFilename string
)

var linkCmd = &cobra.Command{
	Use:   "link <key>",
	Short: "Create a shareable download link",
	Long: `Create a tokenized download link for an object.

The link embeds a signed token and works without credentials until the
token expires. Use --download to force a file download instead of
inline display, and --filename to set the suggested file name.

Examples:
  tollgate-cli link docs/report.pdf
  tollgate-cli link --download docs/report.pdf
  tollgate-cli link --download --filename report-v2.pdf docs/report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	linkCmd.Flags().BoolVarP(&linkDownload, "download", "d", false, "force download disposition")
	linkCmd.Flags().StringVarP(&linkFilename, "filename", "f", "", "suggested download file name")
}

func runLink(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.LinkOptions{
		Key:      args[0],
		Download: linkDownload,
		Filename: linkFilename,
	}

	result, err := client.Link(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatLink(os.Stdout, result)
}
