package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	cmdreport "fuel-dashboard/command/report"
	cmdweb "fuel-dashboard/command/web"
	"fuel-dashboard/connectors/config"
)

// Fuel logistics dashboard.
// Usage:
//   fuel-dashboard web [--addr :8080] [--ui ./ui/dist]
//   fuel-dashboard report --file snapshot.csv [--date 2025-01-31] [--json]
//   fuel-dashboard hash-password < secret.txt
// Notes:
// - The uploaded CSV needs: Date, Sector, Post, Tank Capacity, Reported Stock,
//   Available Storage Space, Avg Daily Consumption, Days of Supply.
// - CONFIG_PATH (or --config) points to a YAML config file (default ./config.yml).

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fuel-dashboard",
	Short: "Fuel logistics analytics over uploaded tank telemetry",
	Long: `fuel-dashboard cleans a CSV snapshot of tank telemetry, computes capacity,
stock and consumption metrics and serves the chart series for a dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	rootCmd.AddCommand(cmdweb.NewCommand(loadConfig))
	rootCmd.AddCommand(cmdreport.NewCommand(loadConfig))
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(config.ResolvePath(cfgFile))
}

// setupLogger installs the default slog logger: text on a terminal, JSON otherwise.
func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Read a password from stdin and print its bcrypt hash for auth.password_hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return errors.New("empty password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}
