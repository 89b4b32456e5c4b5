package http

import "net/http"

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.registerHandler)
	mux.HandleFunc("POST /users/login", s.loginHandler)
	mux.HandleFunc("POST /users/logout", s.requireAuth(s.logoutHandler))
	mux.HandleFunc("POST /users/logoutAll", s.requireAuth(s.logoutAllHandler))

	mux.HandleFunc("GET /users/me", s.requireAuth(s.getProfileHandler))
	mux.HandleFunc("PATCH /users/me", s.requireAuth(s.updateProfileHandler))
	mux.HandleFunc("DELETE /users/me", s.requireAuth(s.deleteAccountHandler))

	mux.HandleFunc("POST /users/me/avatar", s.requireAuth(s.uploadAvatarHandler))
	mux.HandleFunc("DELETE /users/me/avatar", s.requireAuth(s.removeAvatarHandler))
	mux.HandleFunc("GET /users/{id}/avatar", s.getAvatarHandler)

	mux.HandleFunc("GET /tasks", s.requireAuth(s.listTasksHandler))
	mux.HandleFunc("POST /tasks", s.requireAuth(s.createTaskHandler))
	mux.HandleFunc("GET /tasks/{id}", s.requireAuth(s.getTaskHandler))
	mux.HandleFunc("PATCH /tasks/{id}", s.requireAuth(s.updateTaskHandler))
	mux.HandleFunc("DELETE /tasks/{id}", s.requireAuth(s.deleteTaskHandler))

	return mux
}
