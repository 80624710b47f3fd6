package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/controller"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/service"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type FormController struct {
	formService       service.AdminFormService
	tabulationService service.TabulationService
	exportService     service.ExportService
}

func NewFormController(
	formService service.AdminFormService,
	tabulationService service.TabulationService,
	exportService service.ExportService,
) *FormController {
	return &FormController{
		formService:       formService,
		tabulationService: tabulationService,
		exportService:     exportService,
	}
}

func formIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid form ID format"})
		return 0, false
	}
	return uint(id), true
}

// CreateForm godoc
// @Summary (Admin) Create a new form
// @Description Creates a form with its questions and choices in one request. Malformed question entries are skipped; the rest of the form is still created.
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form_data body dto.FormCreateDTO true "Form title, description and questions"
// @Success 201 {object} dto.FormDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed payload or empty title"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms [post]
func (c *FormController) CreateForm(ctx *gin.Context) {
	var req dto.FormCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateForm: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	form, err := c.formService.CreateForm(req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Admin CreateForm: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to create form", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, form)
}

// ListForms godoc
// @Summary (Admin) List all forms
// @Description Dashboard listing of every form, newest first, with question and response counts.
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FormSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms [get]
func (c *FormController) ListForms(ctx *gin.Context) {
	forms, err := c.formService.ListForms()
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list forms", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, forms)
}

// GetResponses godoc
// @Summary (Admin) Tabulated responses of a form
// @Description One row per response (newest first), one column per question; cells hold the frozen choice text or the free text answer.
// @Tags Admin - Responses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.ResponseTableDTO
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms/{id}/responses [get]
func (c *FormController) GetResponses(ctx *gin.Context) {
	id, ok := formIDParam(ctx)
	if !ok {
		return
	}

	table, err := c.tabulationService.Tabulate(id, true)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to tabulate responses", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, table)
}

func exportFilename(table *dto.ResponseTableDTO, extension string) string {
	name := table.FormSlug
	if name == "" {
		name = "form"
	}
	return name + "." + extension
}

// ExportCSV godoc
// @Summary (Admin) Export responses as CSV
// @Tags Admin - Responses
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {string} string "CSV attachment"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms/{id}/export/csv [get]
func (c *FormController) ExportCSV(ctx *gin.Context) {
	id, ok := formIDParam(ctx)
	if !ok {
		return
	}

	table, err := c.tabulationService.Tabulate(id, false)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to tabulate responses", Details: []string{err.Error()}})
		return
	}

	var buf bytes.Buffer
	if err := c.exportService.WriteCSV(&buf, table); err != nil {
		log.Error().Err(err).Uint("formID", id).Msg("ExportCSV: encoding failed")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to encode CSV", Details: []string{err.Error()}})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(table, "csv")))
	ctx.Data(http.StatusOK, csvContentType, buf.Bytes())
}

// ExportXLSX godoc
// @Summary (Admin) Export responses as a spreadsheet
// @Description Same table shape as the CSV export, encoded as an .xlsx workbook. Responds 503 when the spreadsheet capability cannot produce output.
// @Tags Admin - Responses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {string} string "XLSX attachment"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 503 {object} dto.ErrorResponse "Spreadsheet capability unavailable"
// @Router /admin/forms/{id}/export/xlsx [get]
func (c *FormController) ExportXLSX(ctx *gin.Context) {
	id, ok := formIDParam(ctx)
	if !ok {
		return
	}

	table, err := c.tabulationService.Tabulate(id, false)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to tabulate responses", Details: []string{err.Error()}})
		return
	}

	var buf bytes.Buffer
	if err := c.exportService.WriteXLSX(&buf, table); err != nil {
		log.Error().Err(err).Uint("formID", id).Msg("ExportXLSX: encoding failed")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Spreadsheet export is unavailable", Details: []string{err.Error()}})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(table, "xlsx")))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ToggleArchive godoc
// @Summary (Admin) Archive or unarchive a form
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.FormSummaryDTO
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms/{id}/archive [post]
func (c *FormController) ToggleArchive(ctx *gin.Context) {
	id, ok := formIDParam(ctx)
	if !ok {
		return
	}

	summary, err := c.formService.ToggleArchive(id)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to update form", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// DeleteForm godoc
// @Summary (Admin) Delete a form
// @Description Deletes the form and cascades through its questions, choices, responses and answers.
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/forms/{id} [delete]
func (c *FormController) DeleteForm(ctx *gin.Context) {
	id, ok := formIDParam(ctx)
	if !ok {
		return
	}

	if err := c.formService.DeleteForm(id); err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to delete form", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Form deleted"})
}
