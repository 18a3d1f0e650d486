package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartclassroom/classroom-api/internal/core/ports"
)

// StudentHandler serves the student surface: asking questions, viewing the
// announcement and history, downloading the personal transcript.
type StudentHandler struct {
	classroom ports.ClassroomService
}

func NewStudentHandler(classroom ports.ClassroomService) *StudentHandler {
	return &StudentHandler{classroom: classroom}
}

// Ask handles POST /student/questions: dispatches the question to the
// tutor and returns the recorded exchange.
//
// @Summary      Ask the tutor a question
// @Tags         student
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      askRequest  true  "Question"
// @Success      200   {object}  askResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /student/questions [post]
func (h *StudentHandler) Ask(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	entry, err := h.classroom.Ask(c.Request().Context(), username, req.Question)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, askResponse{Entry: toEntryResponse(entry)})
}

// History handles GET /student/history: the student's own entries in append
// order plus the current announcement.
//
// @Summary      View own chat history
// @Tags         student
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  errorResponse
// @Router       /student/history [get]
func (h *StudentHandler) History(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	entries, err := h.classroom.History(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, historyResponse{
		Announcement: h.classroom.Announcement(),
		Entries:      toEntryResponses(entries),
	})
}

// ExportTranscript handles GET /student/history/export: the personal
// transcript as a text attachment.
//
// @Summary      Download own chat transcript
// @Tags         student
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Router       /student/history/export [get]
func (h *StudentHandler) ExportTranscript(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	doc, err := h.classroom.ExportTranscript(c.Request().Context(), username)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_chat.txt"`, username))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(doc))
}
