package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/mollie-import/internal/application/billing"
)

type ImportHandler struct {
	useCase app.ImportFromCSV
}

type importRequest struct {
	SourcePath string `json:"source_path"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(useCase app.ImportFromCSV) *ImportHandler {
	return &ImportHandler{useCase: useCase}
}

// RunImport executes the import synchronously and returns the run summary.
// There is no job queue: the importer keeps no state between invocations.
func (h *ImportHandler) RunImport(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.useCase.Execute(c.Request().Context(), app.ImportFromCSVInput{
		SourcePath: req.SourcePath,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportSource) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_source",
				Message: "source_path must be a .csv file",
			}})
		}
		if errors.Is(err, app.ErrReadSource) {
			return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: &errorBody{
				Code:    "unreadable_source",
				Message: "could not read the export file",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "import run failed",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
