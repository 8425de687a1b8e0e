package domain

type WorkItemStatus string

const (
	WorkItemTodo       WorkItemStatus = "todo"
	WorkItemInProgress WorkItemStatus = "in_progress"
	WorkItemDone       WorkItemStatus = "done"
	WorkItemArchived   WorkItemStatus = "archived"
)

// ValidWorkItemStatuses is the canonical set of accepted status strings.
var ValidWorkItemStatuses = map[WorkItemStatus]bool{
	WorkItemTodo:       true,
	WorkItemInProgress: true,
	WorkItemDone:       true,
	WorkItemArchived:   true,
}

// Priority levels accepted by the CLI. Any integer is valid in storage.
const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
)
