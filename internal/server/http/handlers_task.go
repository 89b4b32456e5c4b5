package http

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	q := r.URL.Query()

	opts := services.ListOptions{
		SortBy: q.Get("sortBy"),
		Limit:  q.Get("limit"),
		Skip:   q.Get("skip"),
	}
	// anything other than a parseable boolean means no filter
	if raw := q.Get("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			opts.Completed = &completed
		}
	}

	tasks, err := s.tasks.List(r.Context(), identity.User.ID, opts)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskViews(tasks))
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	var input struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), identity.User.ID, input.Description, input.Completed)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTaskView(task))
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	task, err := s.tasks.Get(r.Context(), identity.User.ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskView(task))
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	var updates map[string]any
	if err := decodeJSON(r, &updates); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), identity.User.ID, r.PathValue("id"), updates)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskView(task))
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	task, err := s.tasks.Delete(r.Context(), identity.User.ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskView(task))
}
