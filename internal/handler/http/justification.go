package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/handler/http/response"
)

type JustificationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Attachment(w http.ResponseWriter, r *http.Request)
}

type JustificationHandlerImpl struct {
	justificationService justification.JustificationService
}

func NewJustificationHandler(justificationService justification.JustificationService) JustificationHandler {
	return &JustificationHandlerImpl{justificationService: justificationService}
}

// Create implements JustificationHandler. Accepts multipart (data JSON plus
// optional attachment) or a plain JSON body.
func (h *JustificationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req justification.CreateJustificationRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, justification.MaxAttachmentFileSize+(1<<20))
		if err := r.ParseMultipartForm(justification.MaxAttachmentFileSize); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			slog.Error("Create justification decode error", "error", err)
			response.BadRequest(w, "Invalid JSON in 'data' field", nil)
			return
		}

		file, header, err := r.FormFile("attachment")
		switch {
		case err == nil:
			defer file.Close()
			req.Attachment = file
			req.AttachmentName = header.Filename
			req.AttachmentSize = header.Size
		case errors.Is(err, http.ErrMissingFile):
		default:
			slog.Error("Failed to read attachment", "error", err)
			response.BadRequest(w, "Failed to read attachment", nil)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create justification decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.justificationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Justification submitted successfully", created)
}

// List implements JustificationHandler.
func (h *JustificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := justification.JustificationFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Status:     optionalQuery(r, "status"),
		Type:       optionalQuery(r, "type"),
		Channel:    optionalQuery(r, "channel"),
	}
	filter.Page, filter.Limit = pagination(r)

	list, err := h.justificationService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Justifications, response.NewMeta(list.Page, list.Limit, list.TotalCount))
}

// Get implements JustificationHandler.
func (h *JustificationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.justificationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, j)
}

// Approve implements JustificationHandler.
func (h *JustificationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	j, err := h.justificationService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification approved successfully", j)
}

// Reject implements JustificationHandler.
func (h *JustificationHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	j, err := h.justificationService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification rejected successfully", j)
}

// decodeReview reads the optional review note; an empty body is accepted.
func decodeReview(w http.ResponseWriter, r *http.Request) (justification.ReviewJustificationRequest, bool) {
	var req justification.ReviewJustificationRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			slog.Error("Review justification decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return req, false
		}
	}
	req.ID = chi.URLParam(r, "id")
	return req, true
}

// Delete implements JustificationHandler.
func (h *JustificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.justificationService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification deleted successfully", nil)
}

// Attachment implements JustificationHandler.
func (h *JustificationHandlerImpl) Attachment(w http.ResponseWriter, r *http.Request) {
	rc, name, err := h.justificationService.Attachment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream attachment", "error", err, "name", name)
	}
}
