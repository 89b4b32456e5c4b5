package http

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      *int   `json:"age"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), input.Name, input.Email, input.Password, input.Age)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  newUserView(user),
		"token": token,
	})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  newUserView(user),
		"token": token,
	})
}

// logoutHandler revokes exactly the session the request was authenticated
// with; other sessions of the same user stay live.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	if err := s.users.RevokeToken(r.Context(), identity.User.ID, identity.Token); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) logoutAllHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	if err := s.users.RevokeAllTokens(r.Context(), identity.User.ID); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	writeJSON(w, http.StatusOK, newUserView(identity.User))
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	var updates map[string]any
	if err := decodeJSON(r, &updates); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), identity.User, updates)
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

func (s *Server) deleteAccountHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	if err := s.users.DeleteAccount(r.Context(), identity.User); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "account deleted", "user_id", identity.User.ID)

	writeJSON(w, http.StatusOK, newUserView(identity.User))
}
