package aggregate

import "time"

// UnassignedLabel substitutes for a subtask assignee whose employee id does
// not resolve.
const UnassignedLabel = "Unassigned"

type OwnerView struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type BoardView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SubtaskView struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	DueDate    *string `json:"dueDate"`
	AssignedTo *uint   `json:"assignedTo"`
	Assignee   string  `json:"assignee"`
	Completed  bool    `json:"completed"`
}

// ProjectView is the denormalized shape returned to clients: the project
// scalars plus lookup names (null when the foreign key is absent or dangling)
// and the resolved owner, board and subtask collections.
type ProjectView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CategoryID  *uint     `json:"categoryId"`
	TeamID      *uint     `json:"teamId"`
	StatusID    *uint     `json:"statusId"`
	PriorityID  *uint     `json:"priorityId"`
	DueDate     *string   `json:"dueDate"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`

	Category *string `json:"category"`
	Team     *string `json:"team"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`

	Owners   []OwnerView   `json:"owners"`
	Boards   []BoardView   `json:"boards"`
	Subtasks []SubtaskView `json:"subtasks"`
}
