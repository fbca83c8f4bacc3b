package media

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"

	"media-cms/internal/domain"
	"media-cms/internal/http-server/handler/media/dto"
	repoMedia "media-cms/internal/repository/media"
	"media-cms/internal/usecase/encoder"
	media_uc "media-cms/internal/usecase/media"
)

const maxMemory = 32 << 20

type MediaHandler struct {
	usecase  mediaUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewMediaHandler(usecase mediaUsecase, logger *zlog.Zerolog) *MediaHandler {
	return &MediaHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

// UploadMedia accepts exactly one image file in the "image" multipart
// field and runs the derivative pipeline on it.
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, domain.DefaultMaxUploadSize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondEnvelope(w, http.StatusBadRequest, "Missing data.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.logger.Warn().Err(err).Msg("Image file not found in request")
		h.respondEnvelope(w, http.StatusBadRequest, "Missing data.")
		return
	}
	defer file.Close()

	req := dto.UploadRequest{Filename: header.Filename}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn().Err(err).Msg("Upload request failed validation")
		h.respondEnvelope(w, http.StatusBadRequest, "Missing data.")
		return
	}

	asset, err := h.usecase.ProcessUpload(ctx, file, header.Filename)
	if err != nil {
		h.handleUploadError(w, err, header.Filename)
		return
	}

	h.logger.Info().
		Str("name", asset.Name).
		Str("filename", header.Filename).
		Int("files", len(asset.Files)).
		Msg("Media uploaded successfully")

	h.respondEnvelope(w, http.StatusOK, "")
}

func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondEnvelope(w, http.StatusBadRequest, "Invalid media id.")
		return
	}

	asset, err := h.usecase.GetMedia(ctx, id)
	if err != nil {
		if errors.Is(err, repoMedia.ErrMediaNotFound) {
			h.respondEnvelope(w, http.StatusNotFound, "Media not found.")
			return
		}
		h.logger.Error().Err(err).Int64("media_id", id).Msg("Failed to get media")
		h.respondEnvelope(w, http.StatusInternalServerError, "Failed to get media.")
		return
	}

	h.respondJSON(w, http.StatusOK, toMediaResponse(*asset))
}

func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	assets, total, err := h.usecase.ListMedia(ctx, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list media")
		h.respondEnvelope(w, http.StatusInternalServerError, "Failed to list media.")
		return
	}

	items := make([]dto.MediaResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, toMediaResponse(a))
	}

	h.respondJSON(w, http.StatusOK, dto.ListResponse{Items: items, Total: total})
}

// MethodNotAllowed keeps the envelope contract on wrong-verb requests.
func (h *MediaHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *MediaHandler) handleUploadError(w http.ResponseWriter, err error, filename string) {
	var encodeErr *encoder.EncodeError
	var regErr *media_uc.RegistrationError

	switch {
	case errors.Is(err, media_uc.ErrMissingData):
		h.logger.Warn().Str("filename", filename).Msg("Missing upload data")
		h.respondEnvelope(w, http.StatusBadRequest, "Missing data.")
	case errors.Is(err, media_uc.ErrUnsupportedFormat):
		h.logger.Warn().Str("filename", filename).Msg("Unsupported image format")
		h.respondEnvelope(w, http.StatusBadRequest, "Failed to encode image: Invalid format.")
	case errors.As(err, &encodeErr):
		h.logger.Error().Err(err).Str("filename", filename).Int("width", encodeErr.Width).Msg("Encoding failed")
		h.respondEnvelope(w, http.StatusInternalServerError, "Failed to encode image.")
	case errors.Is(err, media_uc.ErrUploadIncomplete):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Upload incomplete")
		h.respondEnvelope(w, http.StatusInternalServerError, "Failed to upload some images.")
	case errors.As(err, &regErr):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Registration failed")
		h.respondEnvelope(w, http.StatusInternalServerError, "Failed to insert image: "+regErr.Err.Error())
	default:
		h.logger.Error().Err(err).Str("filename", filename).Msg("Upload failed")
		h.respondEnvelope(w, http.StatusInternalServerError, "Unexpected error.")
	}
}

func (h *MediaHandler) respondEnvelope(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, dto.Envelope{
		IsSuccess: status == http.StatusOK,
		Message:   message,
	})
}

func (h *MediaHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func toMediaResponse(a domain.MediaAsset) dto.MediaResponse {
	files := make([]dto.FileResponse, 0, len(a.Files))
	for _, f := range a.Files {
		files = append(files, dto.FileResponse{
			Label: f.Label,
			URL:   f.URL,
			Path:  f.StoragePath,
		})
	}

	return dto.MediaResponse{
		ID:        a.ID,
		Name:      a.Name,
		URL:       a.URL,
		MediaType: a.MediaType,
		Files:     files,
		CreatedAt: a.CreatedAt,
	}
}
