package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tollgate/tollgate/clientcli"
)

var (
	version = "dev"

	cliCfgFile  string
	cliProfile  string
	cliEndpoint string
	cliUsername string
	cliPassword string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "tollgate-cli",
	Version: version,
	Short:   "Client for a Tollgate gateway",
	Long: `Tollgate CLI - Client for a Tollgate gateway server

Uploads go through the gateway's signed upload URLs. Files above the
multipart threshold are split into parts and uploaded through the
gateway's multipart protocol, so large transfers survive flaky links.

Connection settings come from a profile (~/.tollgate/config.yaml),
environment variables (TOLLGATE_ENDPOINT, TOLLGATE_USERNAME,
TOLLGATE_PASSWORD), or flags, in increasing precedence.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cliCfgFile, "config", "c", "", "config file (default: ~/.tollgate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&cliProfile, "profile", "p", "", "profile name (env: TOLLGATE_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&cliEndpoint, "endpoint", "e", "", "gateway URL (default: http://localhost:5710, env: TOLLGATE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&cliUsername, "username", "u", "", "admin username (env: TOLLGATE_USERNAME)")
	rootCmd.PersistentFlags().StringVarP(&cliPassword, "password", "k", "", "admin password (env: TOLLGATE_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath resolves the profile config file path from the flag,
// environment, or default location.
func getConfigPath() string {
	if cliCfgFile != "" {
		return cliCfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the selected profile, env vars, and flags
// (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from the selected (or default) profile
	profileName := cliProfile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}

	if fileCfg, err := loadProfileConfig(profileName); err != nil {
		return nil, err
	} else if fileCfg != nil {
		configs = append(configs, fileCfg)
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: cliEndpoint,
		Username: cliUsername,
		Password: cliPassword,
	})

	return clientcli.MergeConfig(configs...), nil
}

func loadProfileConfig(profileName string) (*clientcli.Config, error) {
	cfg, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil {
		// A missing config file is only an error when the user asked for
		// a specific profile or config file.
		if errors.Is(err, os.ErrNotExist) && cliCfgFile == "" && profileName == "" {
			return nil, nil
		}
		return nil, err
	}

	var p *clientcli.Profile
	if profileName != "" {
		p, err = cfg.GetProfile(profileName)
		if err != nil {
			return nil, err
		}
	} else {
		p, err = cfg.GetDefaultProfile()
		if err != nil {
			if errors.Is(err, clientcli.ErrNoProfiles) {
				return nil, nil
			}
			return nil, err
		}
	}

	return clientcli.ConfigFromProfile(p), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return err
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
