/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: convert.go
Description: Conversion command. Reads one container into a symbol store, resolves the
domains of its symbols and writes the store to a second container.
*/

package commands

import (
	"github.com/kleascm/gdxdict/pkg/exchange"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ValidateConvertArgs accepts an input path, an output path and an optional system directory
func ValidateConvertArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return &UsageError{Msg: "Wrong number of arguments"}
	}
	return nil
}

// RunConvert copies args[0] to args[1] through the symbol store
func RunConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	systemDir := viper.GetString("system_dir")
	if len(args) == 3 {
		systemDir = args[2]
	}

	s, err := startSession(cmd.ErrOrStderr(), systemDir)
	if err != nil {
		return err
	}
	defer s.close()

	store, report, err := s.read(input)
	if err != nil {
		return err
	}

	writer := exchange.NewWriter(s.driver, s.logger.GetLogger(), viper.GetString("producer"))
	if err := writer.Write(store, output); err != nil {
		return err
	}

	s.logger.LogRunSummary(s.runID, input, output, store.Len(), store.Universe.Len(), map[string]interface{}{
		"guessed":    len(report.Guesses),
		"unresolved": len(report.Unresolved),
	})

	return nil
}
