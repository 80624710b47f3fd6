package public

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/controller"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/service"
)

type FormController struct {
	formService       service.PublicFormService
	submissionService service.SubmissionService
}

func NewFormController(formService service.PublicFormService, submissionService service.SubmissionService) *FormController {
	return &FormController{formService: formService, submissionService: submissionService}
}

// GetForm godoc
// @Summary (Public) Fetch a published form
// @Description Returns the form with its questions and choices. Unknown slugs and unpublished forms both read as 404.
// @Tags Public - Forms
// @Produce json
// @Param slug path string true "Form slug"
// @Success 200 {object} dto.FormDTO
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /form/{slug} [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	form, err := c.formService.GetFormBySlug(ctx.Param("slug"))
	if err != nil {
		status := controller.StatusFromError(err)
		message := "Failed to load form"
		if status == http.StatusNotFound {
			message = "Form not found"
		}
		ctx.JSON(status, dto.ErrorResponse{Message: message})
		return
	}
	ctx.JSON(http.StatusOK, form)
}

// SubmitForm godoc
// @Summary (Public) Submit answers to a published form
// @Description Stores one response with one answer per question, atomically. Values keyed "question_<id>"; multiple choice values that do not resolve to a choice of that question are kept as free text.
// @Tags Public - Forms
// @Accept json
// @Produce json
// @Param slug path string true "Form slug"
// @Param submission body dto.SubmitRequestDTO true "Raw answers keyed by question"
// @Success 201 {object} dto.SubmissionReceiptDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /form/{slug} [post]
func (c *FormController) SubmitForm(ctx *gin.Context) {
	var req dto.SubmitRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("slug", ctx.Param("slug")).Msg("SubmitForm: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	receipt, err := c.submissionService.Submit(ctx.Param("slug"), req)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to submit response", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, receipt)
}
