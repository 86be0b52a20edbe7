package handler

import (
	"embed"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sgdemo/nric-verify/internal/verification/service"
	apperrors "github.com/sgdemo/nric-verify/pkg/errors"
	"github.com/sgdemo/nric-verify/pkg/httputil"
	"github.com/sgdemo/nric-verify/pkg/logger"
)

//go:embed static/index.html
var static embed.FS

const (
	imageField = "image"

	msgNoImage  = "No image provided"
	msgTooLarge = "Image exceeds maximum upload size"
)

// Handler handles HTTP requests for NRIC verification
type Handler struct {
	service       *service.Service
	maxUploadSize int64
	serviceName   string
	log           *logger.Logger
}

// NewHandler creates a new verification handler
func NewHandler(svc *service.Service, maxUploadSize int64, serviceName string, log *logger.Logger) *Handler {
	return &Handler{
		service:       svc,
		maxUploadSize: maxUploadSize,
		serviceName:   serviceName,
		log:           log,
	}
}

// RegisterRoutes mounts the landing page, the verify endpoint and the health check
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/verify", h.Verify)
	r.Get("/health", h.Health)
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		httputil.Error(w, apperrors.NotFound("page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// Verify handles POST /verify
// Accepts multipart form with:
// - image: the photo of the ID card
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	log := h.log.WithRequestID(httputil.GetRequestID(r.Context()))

	if r.ContentLength > h.maxUploadSize {
		h.fail(w, log, apperrors.TooLarge(msgTooLarge))
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	// maxMemory matches the body limit so no part is spooled to disk
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(w, log, apperrors.TooLarge(msgTooLarge))
			return
		}
		h.fail(w, log, apperrors.BadRequest(msgNoImage))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(imageField)
	if err != nil {
		h.fail(w, log, apperrors.BadRequest(msgNoImage))
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, log, apperrors.Processing(err))
		return
	}

	// imageData is zeroed by the service
	resp, err := h.service.Verify(r.Context(), imageData)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	httputil.JSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, log *logger.Logger, err error) {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) && appErr.ClientFault() {
		log.Info().Str("code", appErr.Code).Msg("verification rejected")
	} else {
		log.Error().Err(err).Msg("verification failed")
	}
	httputil.Error(w, err)
}
