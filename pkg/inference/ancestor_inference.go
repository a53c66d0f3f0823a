/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: ancestor_inference.go
Description: Ancestor chain derivation. Follows each dimension's domain through the first
dimension of the referenced set until the universal set is reached.
*/

package inference

import (
	"errors"

	"github.com/kleascm/gdxdict/pkg/core"
)

var errCycle = errors.New("domain cycle")

// GuessAncestors records, on every dimension of every symbol, the chain of domains from
// the dimension's own key to the wildcard. It must run after GuessDomains has finished.
func (g *DomainGuesser) GuessAncestors(store *core.Store) error {
	for _, name := range store.Symbols() {
		info, _ := store.Info(name)
		for i := range info.Domain {
			chain, err := ancestorChain(store, info.Domain[i].Key)
			if err != nil {
				return &core.DomainCycleError{Symbol: name, Dimension: i, Chain: chain}
			}
			info.Domain[i].Ancestors = chain
		}
	}
	return nil
}

// ancestorChain walks key -> domain of key's first dimension -> ... -> "*".
// A set seen twice is a cycle; the partial chain is returned with errCycle.
func ancestorChain(store *core.Store, key string) ([]string, error) {
	if key == "" {
		key = core.Wildcard
	}
	chain := []string{key}
	visited := make(map[string]struct{})

	for key != core.Wildcard {
		if _, seen := visited[key]; seen {
			return chain, errCycle
		}
		visited[key] = struct{}{}

		next := core.Wildcard
		if ref, ok := store.Info(key); ok && ref.Dims > 0 && len(ref.Domain) > 0 && ref.Domain[0].Key != "" {
			next = ref.Domain[0].Key
		}
		chain = append(chain, next)
		key = next
	}
	return chain, nil
}
