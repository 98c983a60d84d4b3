package handler

import (
	_ "embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/noah-isme/gpa-calculator/internal/dto"
	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

//go:embed templates/form.html
var formTemplate string

type creationLimiter interface {
	Allow() bool
}

// FormConfig configures the HTML form routes. CreateLimit, when set, is only
// spent when a visitor without a live session gets a new one.
type FormConfig struct {
	Base         string
	CookieName   string
	CookieSecure bool
	MaxCourses   int
	ExportPrefix string
	CreateLimit  creationLimiter
}

type formOption struct {
	Value    string
	Label    string
	Selected bool
}

type formRow struct {
	Index   int
	Label   string
	Name    string
	Credits []formOption
	Grades  []formOption
}

type formPage struct {
	Base         string
	State        models.FlowState
	Error        string
	Count        string
	CanContinue  bool
	MaxCourses   int
	Rows         []formRow
	CanCalculate bool
	Result       *models.GPAResult
	ExportBase   string
	ScaleName    string
}

// FormHandler serves the three-step GPA form as server-rendered HTML.
// The session id travels in a cookie.
type FormHandler struct {
	sessions sessionService
	cfg      FormConfig
	tmpl     *template.Template
}

// NewFormHandler constructs handler.
func NewFormHandler(sessions sessionService, cfg FormConfig) *FormHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = "gpa_session"
	}
	return &FormHandler{
		sessions: sessions,
		cfg:      cfg,
		tmpl:     template.Must(template.New("gpa").Parse(formTemplate)),
	}
}

// Show renders the current step.
func (h *FormHandler) Show(c *gin.Context) {
	session, err := h.ensureSession(c)
	if err != nil {
		h.renderError(c, nil, err, "")
		return
	}
	h.render(c, http.StatusOK, session, "", "")
}

// SubmitCount handles the "Continue" button.
func (h *FormHandler) SubmitCount(c *gin.Context) {
	session, err := h.ensureSession(c)
	if err != nil {
		h.renderError(c, nil, err, "")
		return
	}
	raw := c.PostForm("num_courses")
	if _, err := h.sessions.SubmitCount(c.Request.Context(), session.ID, dto.CourseCountRequest{NumCourses: dto.RawValue(raw)}); err != nil {
		h.renderError(c, session, err, raw)
		return
	}
	h.redirect(c)
}

// SaveCourses stores every course field and, for action=calculate, moves to results.
func (h *FormHandler) SaveCourses(c *gin.Context) {
	session, err := h.ensureSession(c)
	if err != nil {
		h.renderError(c, nil, err, "")
		return
	}
	names := c.PostFormArray("name")
	credits := c.PostFormArray("credit_hours")
	grades := c.PostFormArray("grade")
	inputs := make([]dto.CourseInput, len(credits))
	for i := range inputs {
		inputs[i] = dto.CourseInput{Name: at(names, i), CreditHours: credits[i], Grade: at(grades, i)}
	}

	ctx := c.Request.Context()
	saved, err := h.sessions.SaveCourses(ctx, session.ID, dto.SaveCoursesRequest{Courses: inputs})
	if err != nil {
		h.renderError(c, session, err, "")
		return
	}
	if c.PostForm("action") == "calculate" {
		if _, err := h.sessions.Calculate(ctx, session.ID); err != nil {
			h.renderError(c, saved, err, "")
			return
		}
	}
	h.redirect(c)
}

// Reset handles "Start Over" and "Calculate Another GPA".
func (h *FormHandler) Reset(c *gin.Context) {
	session, err := h.ensureSession(c)
	if err != nil {
		h.renderError(c, nil, err, "")
		return
	}
	if _, err := h.sessions.Reset(c.Request.Context(), session.ID); err != nil {
		h.renderError(c, session, err, "")
		return
	}
	h.redirect(c)
}

func (h *FormHandler) ensureSession(c *gin.Context) (*dto.SessionResponse, error) {
	ctx := c.Request.Context()
	if id, err := c.Cookie(h.cfg.CookieName); err == nil && id != "" {
		session, err := h.sessions.Get(ctx, id)
		if err == nil {
			return session, nil
		}
		if !appErrors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, err
		}
	}
	if h.cfg.CreateLimit != nil && !h.cfg.CreateLimit.Allow() {
		c.Header("Retry-After", "1")
		return nil, appErrors.ErrRateLimited
	}
	session, err := h.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, session.ID, 0, h.cookiePath(), "", h.cfg.CookieSecure, true)
	return session, nil
}

func (h *FormHandler) renderError(c *gin.Context, session *dto.SessionResponse, err error, count string) {
	appErr := appErrors.FromError(err)
	if session == nil {
		session = &dto.SessionResponse{State: models.FlowStateCountEntry}
	}
	c.Error(err) //nolint:errcheck
	h.render(c, appErr.Status, session, appErr.Message, count)
}

func (h *FormHandler) render(c *gin.Context, status int, session *dto.SessionResponse, message, count string) {
	page := formPage{
		Base:         h.cfg.Base,
		State:        session.State,
		Error:        message,
		Count:        count,
		CanContinue:  h.sessions.CanContinue(count),
		MaxCourses:   h.cfg.MaxCourses,
		CanCalculate: session.CanCalculate,
		Result:       session.Result,
		ScaleName:    models.GradeScaleName,
	}
	if session.State == models.FlowStateResults && h.cfg.ExportPrefix != "" {
		page.ExportBase = h.cfg.ExportPrefix + "/sessions/" + session.ID + "/export"
	}
	scale := h.sessions.GradeScale()
	for _, course := range session.Courses {
		page.Rows = append(page.Rows, formRow{
			Index:   course.Index,
			Label:   course.Label,
			Name:    course.Name,
			Credits: creditOptions(scale.CreditHours, course.CreditHours),
			Grades:  gradeOptions(scale.Grades, course.Grade),
		})
	}
	c.Header("Cache-Control", "no-store")
	c.Render(status, render.HTML{Template: h.tmpl, Name: "form", Data: page})
}

func (h *FormHandler) redirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, h.cookiePath())
}

func (h *FormHandler) cookiePath() string {
	if h.cfg.Base == "" {
		return "/"
	}
	return h.cfg.Base
}

func creditOptions(options []int, selected *int) []formOption {
	out := make([]formOption, len(options))
	for i, v := range options {
		out[i] = formOption{Value: strconv.Itoa(v), Label: strconv.Itoa(v), Selected: selected != nil && *selected == v}
	}
	return out
}

func gradeOptions(scale []models.GradePoint, selected models.LetterGrade) []formOption {
	out := make([]formOption, len(scale))
	for i, g := range scale {
		out[i] = formOption{Value: string(g.Grade), Label: string(g.Grade), Selected: g.Grade == selected}
	}
	return out
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
