/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: domain_inference.go
Description: Direct domain inference. For every wildcard dimension, finds the smallest
one-dimensional set that contains every element observed on that dimension.
*/

package inference

import (
	"math"

	"github.com/kleascm/gdxdict/pkg/core"
)

// membership maps an element name to the one-dimensional sets containing it,
// in store order
type membership map[string][]string

// buildMembership indexes the elements of every one-dimensional set
func buildMembership(store *core.Store) membership {
	m := make(membership)
	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		if info.Type != core.TypeSet || info.Dims != 1 {
			continue
		}
		level := store.Values(name)
		if level == nil {
			continue
		}
		for _, element := range level.Keys() {
			m[element] = append(m[element], name)
		}
	}
	return m
}

// candidates returns the sets that contain every one of elements.
// No elements means no candidates.
func (m membership) candidates(elements []string) []string {
	if len(elements) == 0 {
		return nil
	}
	result := append([]string(nil), m[elements[0]]...)
	for _, element := range elements[1:] {
		if len(result) == 0 {
			break
		}
		containing := make(map[string]struct{}, len(m[element]))
		for _, s := range m[element] {
			containing[s] = struct{}{}
		}
		kept := result[:0]
		for _, s := range result {
			if _, ok := containing[s]; ok {
				kept = append(kept, s)
			}
		}
		result = kept
	}
	return result
}

// GuessDomains resolves wildcard dimensions from the element data. Dimensions that
// already name a set are never changed, so running it twice gives the same result.
func (g *DomainGuesser) GuessDomains(store *core.Store) []Guess {
	sets := buildMembership(store)
	var guesses []Guess

	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		if info.Dims == 0 {
			continue
		}
		level := store.Values(name)
		if level == nil {
			continue
		}
		observed := level.DimensionKeys(info.Dims)

		for i := 0; i < info.Dims; i++ {
			if info.Domain[i].Resolved() {
				continue
			}

			candidates := sets.candidates(observed[i])
			if info.Type == core.TypeSet {
				candidates = without(candidates, name)
			}
			if len(candidates) == 0 {
				continue
			}

			// A set's domain must be strictly larger than the set itself
			minLength := 0
			if info.Type == core.TypeSet {
				minLength = len(observed[i])
			}

			best, bestLength := "", math.MaxInt
			for _, c := range candidates {
				ci, ok := store.Info(c)
				if !ok {
					continue
				}
				if ci.Records < bestLength && ci.Records > minLength {
					best, bestLength = c, ci.Records
				}
			}
			if best == "" {
				continue
			}

			winner, _ := store.Info(best)
			info.Domain[i] = core.DomainSlot{Key: best, Index: winner.Number}
			guesses = append(guesses, Guess{
				Symbol:     name,
				Dimension:  i,
				Key:        best,
				Index:      winner.Number,
				Observed:   len(observed[i]),
				Candidates: candidates,
			})
		}
	}

	return guesses
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
