package http

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// userView is the external shape of a user. The password hash, the session
// set, and the avatar storage key never leave the server.
type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type taskView struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTaskView(t *models.Task) taskView {
	return taskView{
		ID:          t.ID,
		Owner:       t.UserID,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func newTaskViews(tasks []*models.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	return views
}
