package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"media-cms/internal/http-server/handler/media"
	"media-cms/internal/http-server/middleware"
)

type Handler struct {
	MediaHandler *media.MediaHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.MethodNotAllowed(h.MediaHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Route("/medias", func(r chi.Router) {
			r.Post("/upload", h.MediaHandler.UploadMedia)
			r.Get("/", h.MediaHandler.ListMedia)
			r.Get("/{id}", h.MediaHandler.GetMedia)
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
