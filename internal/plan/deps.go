package plan

// Dependencies maps a stage number to the stage numbers that block it.
// Order holds the blocked stages in list order so callers can iterate
// deterministically.
type Dependencies struct {
	Blockers map[int][]int
	Order    []int
}

// InferDependencies applies the sequential rule: the first stage has no
// blockers, every later stage is blocked by its immediate predecessor, and
// a stage whose predecessor is not the first stage is also blocked by the
// first stage. Edges only ever point to earlier list positions, so the
// result is acyclic.
func InferDependencies(stages []Stage) Dependencies {
	deps := Dependencies{Blockers: make(map[int][]int, len(stages))}
	if len(stages) == 0 {
		return deps
	}

	foundation := stages[0].Number
	deps.Blockers[foundation] = []int{}
	deps.Order = append(deps.Order, foundation)

	for i := 1; i < len(stages); i++ {
		num := stages[i].Number
		prev := stages[i-1].Number

		blockers := []int{prev}
		if prev != foundation {
			blockers = append(blockers, foundation)
		}
		deps.Blockers[num] = blockers
		deps.Order = append(deps.Order, num)
	}
	return deps
}

// Edges returns every (blocker, blocked) pair in iteration order.
func (d Dependencies) Edges() [][2]int {
	var edges [][2]int
	for _, blocked := range d.Order {
		for _, blocker := range d.Blockers[blocked] {
			edges = append(edges, [2]int{blocker, blocked})
		}
	}
	return edges
}
