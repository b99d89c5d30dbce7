package checkpoint

import (
	"fmt"

	"github.com/exochain/core/append"
	"github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
	"github.com/exochain/core/identity"
	"github.com/exochain/core/mmr"
	"github.com/exochain/core/store"
)

// FoldFinalizedEvents folds each of ids, in order, into acc, re-verifying
// every stored event's integrity immediately beforehand via
// append.VerifyIntegrity (spec.md §4.4: "any hash re-computation on stored
// events must yield the stored id"). A checkpointer calls this once per
// finalization cut, right before computing acc.Root() for the next
// checkpoint payload, so a corrupted or orphaned stored event is caught
// before it is committed to the accumulator rather than after.
func FoldFinalizedEvents(acc *mmr.Mmr, s store.Store, codec event.Codec, resolver identity.Resolver, ids []crypto.Hash) error {
	for _, id := range ids {
		ev, err := s.Get(id)
		if err != nil {
			return fmt.Errorf("checkpoint: fold %s: %w", id, err)
		}
		if err := append.VerifyIntegrity(s, codec, resolver, ev); err != nil {
			return fmt.Errorf("checkpoint: fold %s: %w", id, err)
		}
		acc.Append(id)
	}
	return nil
}
