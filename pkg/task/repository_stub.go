package task

import (
	"context"
	"slices"
	"sort"
)

type RepositoryStub struct {
	nextId int
	tasks  map[int]Task
	Err    error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{tasks: map[int]Task{}}
}

// AddTask stores the task, assigning the next id when it has none.
func (s *RepositoryStub) AddTask(t Task) Task {
	if t.Id == 0 {
		s.nextId++
		t.Id = s.nextId
	} else if t.Id > s.nextId {
		s.nextId = t.Id
	}
	s.tasks[t.Id] = t
	return t
}

func (s *RepositoryStub) FindOpenTasksAssignedTo(ctx context.Context, userIds []int) ([]Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	tasks := []Task{}
	for _, t := range s.tasks {
		if !t.Closed && t.Assignee != nil && slices.Contains(userIds, t.Assignee.Id) {
			tasks = append(tasks, s.withChildren(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Assignee.Id != b.Assignee.Id {
			return a.Assignee.Id < b.Assignee.Id
		}
		if a.Project.Id != b.Project.Id {
			return a.Project.Id < b.Project.Id
		}
		return a.Id < b.Id
	})
	return tasks, nil
}

func (s *RepositoryStub) FindTree(ctx context.Context, taskId int) (Tree, error) {
	if s.Err != nil {
		return Tree{}, s.Err
	}
	root, ok := s.tasks[taskId]
	if !ok {
		return Tree{}, ErrTaskNotFound
	}
	tree := Tree{Root: s.withChildren(root)}
	for parentId := root.ParentId; parentId != nil; {
		parent := s.tasks[*parentId]
		tree.Ancestors = append(tree.Ancestors, s.withChildren(parent))
		parentId = parent.ParentId
	}
	level := []int{taskId}
	for len(level) > 0 {
		var next []int
		var children []Task
		for _, t := range s.tasks {
			if t.ParentId != nil && slices.Contains(level, *t.ParentId) {
				children = append(children, s.withChildren(t))
				next = append(next, t.Id)
			}
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Id < children[j].Id })
		tree.Descendants = append(tree.Descendants, children...)
		level = next
	}
	return tree, nil
}

func (s *RepositoryStub) withChildren(t Task) Task {
	t.HasChildren = false
	for _, other := range s.tasks {
		if other.ParentId != nil && *other.ParentId == t.Id {
			t.HasChildren = true
			break
		}
	}
	return t
}

func (s *RepositoryStub) Reset() {
	s.nextId = 0
	s.tasks = map[int]Task{}
	s.Err = nil
}
