package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/session"
	"bibliotech/internal/shared/response"
	"bibliotech/internal/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SessionHandler serves the endpoints that span both entities.
type SessionHandler struct {
	session *session.Session
	history *notify.Recorder
}

func NewSessionHandler(s *session.Session, history *notify.Recorder) *SessionHandler {
	return &SessionHandler{session: s, history: history}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/refresh", h.Refresh)
	rg.GET("/notifications", h.Notifications)
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}

// Refresh refetches both tables. Load failures are already in the
// notification feed; the response reports them too.
func (h *SessionHandler) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"authors": len(h.session.Authors().Records()),
		"books":   len(h.session.Books().Records()),
	})
}

func (h *SessionHandler) Notifications(c *gin.Context) {
	if h.history == nil {
		response.Success(c, http.StatusOK, []notify.Notification{})
		return
	}
	response.Success(c, http.StatusOK, h.history.All())
}

// Export downloads both lists, filtered and sorted as currently shown.
func (h *SessionHandler) Export(c *gin.Context) {
	f, err := spreadsheet.Build(h.session.AuthorsPage().Export(), h.session.BooksPage().Export())
	if err != nil {
		log.Error().Err(err).Msg("failed to build export")
		response.InternalServerError(c, "failed to build export")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bibliotech-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to stream export")
	}
}

// Import adds the rows of an uploaded workbook (form field "file").
func (h *SessionHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	src, err := header.Open()
	if err != nil {
		response.BadRequest(c, "failed to open file")
		return
	}
	defer src.Close()

	importer := spreadsheet.NewImporter(h.session.Authors(), h.session.Books())
	report, err := importer.Import(c.Request.Context(), src)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, http.StatusOK, report)
}
