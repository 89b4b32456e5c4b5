package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// maxAvatarSize caps avatar uploads at 1 MB.
const maxAvatarSize = 1 << 20

func (s *Server) uploadAvatarHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarSize))
	if err != nil {
		s.writeServiceError(r.Context(), w,
			fmt.Errorf("%w: avatar must be at most %d bytes", common.ErrorValidation, maxAvatarSize))
		return
	}
	if len(data) == 0 {
		s.writeServiceError(r.Context(), w,
			fmt.Errorf("%w: avatar must be provided", common.ErrorValidation))
		return
	}

	if err := s.avatars.Upload(r.Context(), identity.User, data); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) removeAvatarHandler(w http.ResponseWriter, r *http.Request, identity *services.Identity) {
	if err := s.avatars.Remove(r.Context(), identity.User); err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// getAvatarHandler is public: anyone can fetch any user's avatar by id.
func (s *Server) getAvatarHandler(w http.ResponseWriter, r *http.Request) {
	data, err := s.avatars.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
