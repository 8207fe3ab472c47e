package task

// OwnRemainingHours is the effort still to be spent on the task itself.
// Parents delegate their effort to their children and report 0.
func OwnRemainingHours(t Task) float64 {
	if t.HasChildren {
		return 0
	}
	estimated := t.EstimatedHours
	if estimated < 0 {
		estimated = 0
	}
	done := min(max(t.DoneRatio, 0), 100)
	return estimated * float64(100-done) / 100
}

// Tree is a task together with its ancestry and every task below it.
type Tree struct {
	Root Task
	// Ancestors go from the direct parent up to the top-level task.
	Ancestors []Task
	// Descendants are ordered by depth, then id.
	Descendants []Task
}

func (tr Tree) HasChildren() bool {
	for _, d := range tr.Descendants {
		if d.ParentId != nil && *d.ParentId == tr.Root.Id {
			return true
		}
	}
	return false
}

// Leaves returns the tasks of the subtree that have no children. A tree without
// descendants is its own leaf.
func (tr Tree) Leaves() []Task {
	if len(tr.Descendants) == 0 {
		return []Task{tr.Root}
	}
	parents := make(map[int]bool, len(tr.Descendants))
	for _, d := range tr.Descendants {
		if d.ParentId != nil {
			parents[*d.ParentId] = true
		}
	}
	leaves := make([]Task, 0, len(tr.Descendants))
	for _, d := range tr.Descendants {
		if !parents[d.Id] {
			leaves = append(leaves, d)
		}
	}
	return leaves
}

// RemainingHoursOf sums the own remaining hours of every open leaf of the tree.
func RemainingHoursOf(tr Tree) float64 {
	total := 0.0
	for _, leaf := range tr.Leaves() {
		if leaf.Closed {
			continue
		}
		leaf.HasChildren = false
		total += OwnRemainingHours(leaf)
	}
	return total
}
