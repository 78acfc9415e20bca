package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tollgate/tollgate/clientcli"
)

var (
	uploadRecursive bool
	uploadKey       string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [local-path...]",
	Short: "Upload files to the gateway",
	Long: `Upload one or more files to the gateway.

Small files are written through a signed upload URL in one request.
Files above the multipart threshold are uploaded in fixed-size parts
through the gateway's multipart protocol; a failed upload restarts
from the beginning when retried.

Examples:
  tollgate-cli upload ./file.txt
  tollgate-cli upload --key docs/report.pdf ./report.pdf
  tollgate-cli upload ./a.txt ./b.txt ./c.txt
  tollgate-cli upload -r ./images/ --key media/images/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directory contents recursively")
	uploadCmd.Flags().StringVar(&uploadKey, "key", "", "object key (single file), or key prefix (recursive)")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	entries, err := collectUploads(args)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	engine := clientcli.NewEngine(client)
	defer engine.Close()

	for _, entry := range entries {
		if _, err := engine.Enqueue(entry.localPath, entry.key); err != nil {
			return handleError(os.Stderr, fmt.Errorf("enqueue %s: %w", entry.localPath, err))
		}
	}

	if err := engine.Wait(context.Background()); err != nil {
		return handleError(os.Stderr, err)
	}

	tasks := engine.Tasks()

	formatter := getFormatter()
	if err := formatter.FormatUpload(os.Stdout, tasks); err != nil {
		return err
	}

	for i := range tasks {
		if tasks[i].Status == clientcli.StatusError {
			return &exitError{code: 1}
		}
	}

	return nil
}

type uploadEntry struct {
	localPath string
	key       string
}

// collectUploads expands the argument list into individual files. The --key
// flag names a single file's key, or acts as a key prefix when uploading a
// directory recursively.
func collectUploads(paths []string) ([]uploadEntry, error) {
	if uploadKey != "" && !uploadRecursive && len(paths) > 1 {
		return nil, fmt.Errorf("--key requires a single file")
	}

	var entries []uploadEntry
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			entries = append(entries, uploadEntry{localPath: p, key: uploadKey})
			continue
		}

		if !uploadRecursive {
			return nil, fmt.Errorf("%s is a directory (use --recursive)", p)
		}

		prefix := strings.TrimSuffix(uploadKey, "/")
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(p, path)
			if relErr != nil {
				return relErr
			}
			key := filepath.ToSlash(rel)
			if prefix != "" {
				key = prefix + "/" + key
			}
			entries = append(entries, uploadEntry{localPath: path, key: key})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	if len(entries) == 0 {
		return nil, clientcli.ErrNoPaths
	}

	return entries, nil
}
