package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartclassroom/classroom-api/internal/core/ports"
)

const workbookMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TeacherHandler serves the teacher dashboard: broadcasting, the aggregated
// activity view, exports, and starting a new class.
type TeacherHandler struct {
	classroom ports.ClassroomService
}

func NewTeacherHandler(classroom ports.ClassroomService) *TeacherHandler {
	return &TeacherHandler{classroom: classroom}
}

// Broadcast handles POST /teacher/broadcast: overwrites the announcement
// every student sees on their next view. Last writer wins.
//
// @Summary      Broadcast an announcement
// @Tags         teacher
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      broadcastRequest  true  "Announcement"
// @Success      200   {object}  broadcastResponse
// @Failure      401   {object}  errorResponse
// @Router       /teacher/broadcast [post]
func (h *TeacherHandler) Broadcast(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.classroom.Broadcast(username, req.Message)
	return c.JSON(http.StatusOK, broadcastResponse{Message: req.Message})
}

// Activity handles GET /teacher/activity: every student's history, grouped
// by student, including students who can no longer log in.
//
// @Summary      View aggregated student activity
// @Tags         teacher
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  activityResponse
// @Failure      401  {object}  errorResponse
// @Router       /teacher/activity [get]
func (h *TeacherHandler) Activity(c echo.Context) error {
	activity, err := h.classroom.Activity(c.Request().Context())
	if err != nil {
		return err
	}

	students := make([]studentActivityResponse, 0, len(activity))
	for _, a := range activity {
		students = append(students, studentActivityResponse{
			Student: a.Student,
			Entries: toEntryResponses(a.Entries),
		})
	}
	return c.JSON(http.StatusOK, activityResponse{Students: students})
}

// ExportActivity handles GET /teacher/activity/export: the all-students
// transcript as a text attachment. Also snapshots the aggregate CSV next to
// the live store.
//
// @Summary      Download the class transcript
// @Tags         teacher
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Router       /teacher/activity/export [get]
func (h *TeacherHandler) ExportActivity(c echo.Context) error {
	doc, err := h.classroom.ExportActivity(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="class_chat.txt"`)
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(doc))
}

// ExportWorkbook handles GET /teacher/activity/export.xlsx: the aggregated
// activity as a spreadsheet, also saved as the teacher-facing summary
// artifact.
//
// @Summary      Download the class activity workbook
// @Tags         teacher
// @Produce      octet-stream
// @Security     BearerAuth
// @Success      200  {string}  binary
// @Failure      401  {object}  errorResponse
// @Router       /teacher/activity/export.xlsx [get]
func (h *TeacherHandler) ExportWorkbook(c echo.Context) error {
	book, err := h.classroom.ExportWorkbook(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="teacher_class_summary.xlsx"`)
	return c.Blob(http.StatusOK, workbookMIME, book)
}

// StartNewClass handles POST /teacher/classes: archives the live history
// under a timestamped name and invalidates every outstanding login.
//
// @Summary      Start a new class
// @Tags         teacher
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  newClassResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /teacher/classes [post]
func (h *TeacherHandler) StartNewClass(c echo.Context) error {
	archive, err := h.classroom.StartNewClass(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newClassResponse{Archive: archive})
}
