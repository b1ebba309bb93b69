package httpapi

import (
	"net/http"
)

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handleImageUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.images.GetPresignedPutURL(r.Context())
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{Key: key, URL: url})
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleImageDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}
	url, err := s.images.GetPresignedGetURL(r.Context(), key)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadURLResponse{URL: url})
}
