package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/handler/http/response"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
)

type PunchHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type PunchHandlerImpl struct {
	punchService punch.PunchService
}

func NewPunchHandler(punchService punch.PunchService) PunchHandler {
	return &PunchHandlerImpl{punchService: punchService}
}

// Import implements PunchHandler.
func (h *PunchHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, punch.MaxImportFileSize+(1<<20))
	if err := r.ParseMultipartForm(punch.MaxImportFileSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Error("Failed to read uploaded file", "error", err)
		response.BadRequest(w, "Failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	req := punch.ImportRequest{
		Filename:   header.Filename,
		Size:       header.Size,
		File:       file,
		ImportedBy: &principal.UserID,
	}

	result, err := h.punchService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch file imported successfully", result)
}

// List implements PunchHandler.
func (h *PunchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := punch.PunchFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Direction:  optionalQuery(r, "direction"),
		BatchID:    optionalQuery(r, "batch_id"),
	}
	filter.Page, filter.Limit = pagination(r)

	punches, err := h.punchService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, punches.Punches, response.NewMeta(punches.Page, punches.Limit, punches.TotalCount))
}
