package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-calculator/internal/dto"
	"github.com/noah-isme/gpa-calculator/internal/models"
	"github.com/noah-isme/gpa-calculator/internal/service"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
	"github.com/noah-isme/gpa-calculator/pkg/response"
)

type sessionService interface {
	GradeScale() dto.GradeScaleResponse
	CanContinue(raw string) bool
	Create(ctx context.Context) (*dto.SessionResponse, error)
	Get(ctx context.Context, id string) (*dto.SessionResponse, error)
	SubmitCount(ctx context.Context, id string, req dto.CourseCountRequest) (*dto.SessionResponse, error)
	UpdateCourse(ctx context.Context, id string, index int, req dto.UpdateCourseRequest) (*dto.SessionResponse, error)
	SaveCourses(ctx context.Context, id string, req dto.SaveCoursesRequest) (*dto.SessionResponse, error)
	Calculate(ctx context.Context, id string) (*dto.SessionResponse, error)
	Result(ctx context.Context, id string) (*models.GPAResult, error)
	Reset(ctx context.Context, id string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string) error
}

type exportService interface {
	Export(ctx context.Context, id string, format service.ExportFormat) (*service.ExportFile, error)
}

// SessionHandler exposes the GPA form flow as a JSON API.
type SessionHandler struct {
	sessions sessionService
	exports  exportService
}

// NewSessionHandler constructs handler. A nil exports disables downloads.
func NewSessionHandler(sessions sessionService, exports exportService) *SessionHandler {
	return &SessionHandler{sessions: sessions, exports: exports}
}

// GradeScale godoc
// @Summary List grade and credit hour options
// @Tags GPA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grade-scale [get]
func (h *SessionHandler) GradeScale(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sessions.GradeScale())
}

// Create godoc
// @Summary Start a GPA form session
// @Tags GPA
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Show the current step of a session
// @Tags GPA
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SubmitCount godoc
// @Summary Choose the number of courses
// @Tags GPA
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.CourseCountRequest true "Course count"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/count [post]
func (h *SessionHandler) SubmitCount(c *gin.Context) {
	var req dto.CourseCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.sessions.SubmitCount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// UpdateCourse godoc
// @Summary Replace one field of one course
// @Tags GPA
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Zero-based course index"
// @Param payload body dto.UpdateCourseRequest true "Field update"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/courses/{index} [patch]
func (h *SessionHandler) UpdateCourse(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrCourseIndex, "course index must be an integer"))
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.sessions.UpdateCourse(c.Request.Context(), c.Param("id"), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SaveCourses godoc
// @Summary Replace every course at once
// @Tags GPA
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SaveCoursesRequest true "Course list"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/courses [put]
func (h *SessionHandler) SaveCourses(c *gin.Context) {
	var req dto.SaveCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.sessions.SaveCourses(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Calculate godoc
// @Summary Calculate the GPA once every course is complete
// @Tags GPA
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/calculate [post]
func (h *SessionHandler) Calculate(c *gin.Context) {
	session, err := h.sessions.Calculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Result godoc
// @Summary Show the calculated GPA and breakdown
// @Tags GPA
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) Result(c *gin.Context) {
	result, err := h.sessions.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Download the result as CSV or PDF
// @Tags GPA
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Reset godoc
// @Summary Start over from the course count
// @Tags GPA
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	session, err := h.sessions.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Delete godoc
// @Summary Discard a session
// @Tags GPA
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
