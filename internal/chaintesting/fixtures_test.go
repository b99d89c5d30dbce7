package chaintesting_test

import (
	"testing"

	"github.com/exochain/core/event"
	"github.com/exochain/core/internal/chaintesting"
	"github.com/stretchr/testify/require"
)

func TestChainProducesStrictlyIncreasingLogicalTimes(t *testing.T) {
	codec, err := event.NewCodec()
	require.NoError(t, err)

	kp, err := chaintesting.NewKeyPair()
	require.NoError(t, err)

	chain := chaintesting.New(codec, kp)
	genesis, err := chain.Genesis(1000, "exochain-test")
	require.NoError(t, err)

	child, err := chain.Append(1500, []event.Event{genesis}, event.OpaquePayload([]byte("child")))
	require.NoError(t, err)

	require.True(t, child.Envelope.LogicalTime.After(genesis.Envelope.LogicalTime))
	require.Len(t, child.Envelope.Parents, 1)
	require.Equal(t, genesis.ID, child.Envelope.Parents[0])
}
