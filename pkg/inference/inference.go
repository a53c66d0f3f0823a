/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Main entry point for domain inference. Many containers omit which set each
dimension of a symbol ranges over; the DomainGuesser recovers it from the element data
and then derives every dimension's ancestor chain up to the universal set.
*/

package inference

import (
	"io"

	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/sirupsen/logrus"
)

// Guess records one dimension resolved by direct inference
type Guess struct {
	Symbol     string   `json:"symbol"`
	Dimension  int      `json:"dimension"`
	Key        string   `json:"key"`
	Index      int      `json:"index"`
	Observed   int      `json:"observed"`   // Distinct elements seen on the dimension
	Candidates []string `json:"candidates"` // Sets containing every observed element
}

// Report summarises one run of the guesser
type Report struct {
	Guesses    []Guess               `json:"guesses"`
	Unresolved map[string][]int      `json:"unresolved"` // Dimensions left as wildcard, per symbol
	Ancestors  map[string][][]string `json:"ancestors"`
}

// DomainGuesser fills in wildcard domains of a store's symbols
type DomainGuesser struct {
	logger *logrus.Logger
}

// NewDomainGuesser creates a guesser. A nil logger discards output.
func NewDomainGuesser(logger *logrus.Logger) *DomainGuesser {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &DomainGuesser{logger: logger}
}

// Run performs direct inference followed by ancestor derivation.
// Only metadata is touched; record values are left alone.
func (g *DomainGuesser) Run(store *core.Store) (*Report, error) {
	report := &Report{
		Unresolved: make(map[string][]int),
		Ancestors:  make(map[string][][]string),
	}

	report.Guesses = g.GuessDomains(store)

	if err := g.GuessAncestors(store); err != nil {
		return report, err
	}

	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		if info.Dims == 0 {
			continue
		}
		chains := make([][]string, info.Dims)
		for i, slot := range info.Domain {
			if !slot.Resolved() {
				report.Unresolved[name] = append(report.Unresolved[name], i)
			}
			chains[i] = slot.Ancestors
		}
		report.Ancestors[name] = chains
	}

	g.logger.WithFields(logrus.Fields{
		"symbols":    store.Len(),
		"guessed":    len(report.Guesses),
		"unresolved": len(report.Unresolved),
	}).Debug("Domain inference completed")

	return report, nil
}
