package domain

// Priority задаёт приоритет задачи: low, medium или high
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority подставляется, когда поле priority в форме отсутствует
const DefaultPriority = PriorityMedium

// Priorities возвращает допустимые приоритеты в порядке отображения
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Task представляет модель задачи,
// соответствует таблице tasks в бд
type Task struct {
	ID          int64    `json:"id" db:"id" gorm:"primaryKey"`
	Title       string   `json:"title" db:"title" gorm:"size:200;not null"`
	Description string   `json:"description" db:"description" gorm:"type:text;not null"`
	Completed   bool     `json:"completed" db:"completed" gorm:"not null"`
	Priority    Priority `json:"priority" db:"priority" gorm:"size:20;not null"`
	UserID      int64    `json:"user_id" db:"user_id" gorm:"not null;index"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskList содержит задачи пользователя вместе со счётчиками для дашборда
type TaskList struct {
	Tasks     []Task
	Total     int
	Completed int
	Pending   int
}

// NewTaskList считает total/completed/pending по списку задач
func NewTaskList(tasks []Task) *TaskList {
	list := &TaskList{Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			list.Completed++
		}
	}
	list.Pending = list.Total - list.Completed
	return list
}
