package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphFetcher adapts an in-memory adjacency map (dependent → prerequisites)
// to the traversal's fetch signature.
func graphFetcher(edges map[int64][]int64) prerequisiteFetcher {
	return func(_ context.Context, dependentIDs []int64) ([]int64, error) {
		var out []int64
		for _, id := range dependentIDs {
			out = append(out, edges[id]...)
		}
		return out, nil
	}
}

func TestDetectCycle_SelfEdge(t *testing.T) {
	ctx := context.Background()

	cycle, err := detectCycle(ctx, graphFetcher(nil), 1, 1, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.True(t, cycle, "a job card depending on itself is a cycle")
}

func TestDetectCycle_DirectCycle(t *testing.T) {
	ctx := context.Background()
	// B depends on A (edge A → B exists)
	edges := map[int64][]int64{2: {1}}

	// proposing B as prerequisite of A closes A → B → A
	cycle, err := detectCycle(ctx, graphFetcher(edges), 1, 2, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.True(t, cycle)

	// an unrelated card as dependent is fine
	cycle, err = detectCycle(ctx, graphFetcher(edges), 3, 1, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.False(t, cycle)
}

func TestDetectCycle_TransitiveCycle(t *testing.T) {
	ctx := context.Background()
	// chain A → B → C: B depends on A, C depends on B
	edges := map[int64][]int64{2: {1}, 3: {2}}

	// proposing C as prerequisite of A closes the loop through B
	cycle, err := detectCycle(ctx, graphFetcher(edges), 1, 3, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestDetectCycle_DiamondVisitsNodesOnce(t *testing.T) {
	ctx := context.Background()
	// 4 depends on 2 and 3, both of which depend on 1
	edges := map[int64][]int64{4: {2, 3}, 2: {1}, 3: {1}}

	// proposing card 4 as a prerequisite of card 1 loops through either branch
	cycle, err := detectCycle(ctx, graphFetcher(edges), 1, 4, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.True(t, cycle)

	cycle, err = detectCycle(ctx, graphFetcher(edges), 99, 4, DefaultMaxChainDepth)
	require.NoError(t, err)
	assert.False(t, cycle)
}

// A cycle that only closes beyond the depth cap goes undetected. That is the
// accepted trade-off of the bounded traversal, not a bug: the cap guards
// against runaway walks over corrupt data.
func TestDetectCycle_DepthCapLimitsDetection(t *testing.T) {
	ctx := context.Background()

	// chain 1 ← 2 ← 3 ← … ← 12: card n depends on card n+1
	edges := map[int64][]int64{}
	for n := int64(1); n <= 11; n++ {
		edges[n] = []int64{n + 1}
	}

	// proposing card 1 as a prerequisite of card 12 would close the loop,
	// but card 12 sits at depth 11 of card 1's prerequisite chain
	cycle, err := detectCycle(ctx, graphFetcher(edges), 12, 1, 10)
	require.NoError(t, err)
	assert.False(t, cycle, "cycle past the depth cap is not detected")

	// with a deeper bound the same edge is caught
	cycle, err = detectCycle(ctx, graphFetcher(edges), 12, 1, 11)
	require.NoError(t, err)
	assert.True(t, cycle)
}
