package task

// Task is a single to-do item. IDs are only unique as far as the store's
// assignment rule allows.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Seed returns the fixed startup collection.
func Seed() []Task {
	return []Task{
		{ID: 0, Title: "mi primer tarea", Description: "mi primer tarea"},
		{ID: 1, Title: "mi segunda tarea", Description: "mi segunda tarea"},
		{ID: 2, Title: "mi tercera tarea", Description: "mi tercera tarea"},
	}
}
