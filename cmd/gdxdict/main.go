/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for gdxdict. Converts one container into another
through the symbol store, and offers dump and domain inspection subcommands. Exit status
is 0 on success, 2 on usage or data exchange errors and 1 otherwise.
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kleascm/gdxdict/cmd/gdxdict/commands"
	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const usageLine = "gdxdict <input file> <output file> [system directory]"

// Exit codes
const (
	exitOK    = 0
	exitOther = 1
	exitError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	viper.Reset()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	return reportError(stderr, err)
}

// reportError prints a one-line diagnostic naming the kind of failure
func reportError(stderr io.Writer, err error) int {
	var (
		usageErr    *commands.UsageError
		openErr     *core.OpenError
		protocolErr *core.ProtocolError
		cycleErr    *core.DomainCycleError
	)

	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "Error: %s\n", usageErr.Msg)
		fmt.Fprintf(stderr, "Usage: %s\n", usageLine)
		return exitError
	case errors.As(err, &openErr):
		fmt.Fprintf(stderr, "Open Error: %v\n", err)
		return exitError
	case errors.As(err, &protocolErr):
		fmt.Fprintf(stderr, "Protocol Error: %v\n", err)
		return exitError
	case errors.As(err, &cycleErr):
		fmt.Fprintf(stderr, "Domain Cycle Error: %v\n", err)
		return exitError
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitOther
	}
}

// newRootCmd builds the command tree and binds its flags to the configuration
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gdxdict <input file> <output file> [system directory]",
		Short: "gdxdict - convert data exchange containers through a symbol dictionary",
		Long: `gdxdict reads every symbol of a container into a nested dictionary, guesses the
domain of each dimension that was written without one, and writes the dictionary to a
second container.`,
		Version:       "1.0.0",
		Args:          commands.ValidateConvertArgs,
		RunE:          commands.RunConvert,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &commands.UsageError{Msg: err.Error()}
	})

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Log output directory (empty logs to stderr only)")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().String("driver", "yaml", "Container driver (yaml, memory)")
	rootCmd.PersistentFlags().String("system-dir", "", "System directory handed to the driver")
	rootCmd.PersistentFlags().String("producer", "gdxdict", "Producer recorded in written containers")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("driver", rootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("system_dir", rootCmd.PersistentFlags().Lookup("system-dir"))
	viper.BindPFlag("producer", rootCmd.PersistentFlags().Lookup("producer"))

	// Add dump command
	dumpCmd := &cobra.Command{
		Use:   "dump <input file>",
		Short: "Print the symbols of a container",
		Long: `Print every leaf of every symbol as "[symbol coordinates...] value", or the whole
store as YAML or as a raw structure dump.`,
		Args: commands.ExactArgs(1),
		RunE: commands.RunDump,
	}
	dumpCmd.Flags().String("format", "text", "Output format (text, yaml, spew)")
	dumpCmd.Flags().String("symbol", "", "Only print this symbol")
	viper.BindPFlag("dump.format", dumpCmd.Flags().Lookup("format"))
	viper.BindPFlag("dump.symbol", dumpCmd.Flags().Lookup("symbol"))
	rootCmd.AddCommand(dumpCmd)

	// Add domains command
	domainsCmd := &cobra.Command{
		Use:   "domains <input file>",
		Short: "Show declared and guessed domains",
		Long: `Show the domain of every dimension of every symbol after inference, with the
chain of ancestor sets leading to the universal set.`,
		Args: commands.ExactArgs(1),
		RunE: commands.RunDomains,
	}
	domainsCmd.Flags().String("report-dir", "", "Directory for JSON domain reports")
	viper.BindPFlag("report_dir", domainsCmd.Flags().Lookup("report-dir"))
	rootCmd.AddCommand(domainsCmd)

	return rootCmd
}
