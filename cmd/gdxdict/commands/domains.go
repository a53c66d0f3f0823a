/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: domains.go
Description: Domains command. Reads a container and shows the domain of every dimension,
declared or guessed, with its ancestor chain. Optionally saves a JSON report.
*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/inference"
	"github.com/kleascm/gdxdict/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DomainsReport is the document saved by --report-dir
type DomainsReport struct {
	RunID   string                       `json:"run_id"`
	Input   string                       `json:"input"`
	Domains map[string][]core.DomainSlot `json:"domains"`
	Guesser *inference.Report            `json:"guesser"`
}

// RunDomains prints the resolved domains of args[0]
func RunDomains(cmd *cobra.Command, args []string) error {
	s, err := startSession(cmd.ErrOrStderr(), viper.GetString("system_dir"))
	if err != nil {
		return err
	}
	defer s.close()

	store, report, err := s.read(args[0])
	if err != nil {
		return err
	}

	if err := PrintDomains(cmd.OutOrStdout(), store); err != nil {
		return err
	}

	reportDir := viper.GetString("report_dir")
	if reportDir == "" {
		return nil
	}

	doc := DomainsReport{
		RunID:   s.runID,
		Input:   args[0],
		Domains: make(map[string][]core.DomainSlot),
		Guesser: report,
	}
	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		doc.Domains[name] = info.Domain
	}

	path, err := utils.WriteReport(reportDir, "domains", s.runID, doc)
	if err != nil {
		return err
	}
	s.logger.Info("Domain report saved", map[string]interface{}{"path": path})
	return nil
}

// PrintDomains writes "name(d1,d2)" per symbol followed by one ancestor chain per dimension
func PrintDomains(out io.Writer, store *core.Store) error {
	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		if info.Dims == 0 {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s(%s) %s\n", name, strings.Join(info.DomainKeys(), ","), info.TypeName()); err != nil {
			return err
		}
		for i, slot := range info.Domain {
			if _, err := fmt.Fprintf(out, "  %d %s\n", i+1, strings.Join(slot.Ancestors, " -> ")); err != nil {
				return err
			}
		}
	}
	return nil
}
