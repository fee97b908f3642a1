package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarjanSCC(t *testing.T) {
	// 0 -> 1 -> 2 -> 0, 2 -> 3, 4 alone
	adj := [][]int{{1}, {2}, {0, 3}, {}, {}}

	sccs := tarjanSCC(adj)
	assert.ElementsMatch(t, [][]int{{0, 1, 2}, {3}, {4}}, sccs)
}

func TestScheduleTopological(t *testing.T) {
	g := newGraph(4)
	g.add(3, 2, false)
	g.add(2, 1, false)
	g.add(1, 0, false)

	assert.Equal(t, []int{3, 2, 1, 0}, g.schedule())
}

func TestScheduleTiesFollowIndex(t *testing.T) {
	g := newGraph(4)
	g.add(2, 3, false)

	assert.Equal(t, []int{0, 1, 2, 3}, g.schedule())
}

func TestScheduleDropsSoftFeedback(t *testing.T) {
	g := newGraph(3)
	g.add(0, 1, false)
	g.add(1, 2, false)
	g.add(2, 0, true) // feedback into a sequential node

	assert.Nil(t, g.hardLoop())
	assert.Equal(t, []int{0, 1, 2}, g.schedule())
}

func TestScheduleKeepsAcyclicSoftEdges(t *testing.T) {
	g := newGraph(2)
	g.add(1, 0, true)

	assert.Equal(t, []int{1, 0}, g.schedule())
}

func TestHardLoop(t *testing.T) {
	g := newGraph(4)
	g.add(0, 1, false)
	g.add(1, 2, false)
	g.add(2, 1, false)
	g.add(2, 3, false)

	assert.Equal(t, []int{1, 2, 1}, g.hardLoop())
}

func TestReconstructCyclePathShortest(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 and the shortcut 0 -> 2
	adj := [][]int{{1, 2}, {2}, {0}}

	assert.Equal(t, []int{0, 2, 0}, reconstructCyclePath([]int{0, 1, 2}, adj))
}
