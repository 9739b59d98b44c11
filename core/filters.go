package core

type ListFilter struct {
	// InProgress keeps only tasks with no completed date.
	InProgress bool
}

type TaskPage struct {
	Tasks       []Task
	CurrentPage int
	TotalPages  int
}
