package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/https-aaryannn/anonbox/internal/export"
)

// ExportConfessions godoc
// @ID          exportConfessions
// @Summary     Export the filtered snapshot as CSV
// @Description Streams the current working set, filtered by q, as an RFC 4180 CSV attachment.
// @Tags        Moderation
// @Produce     text/csv
//
// @Param       Authorization  header  string  true  "Bearer session token"
// @Param       q              query   string  false "Case-insensitive substring over content"
//
// @Success     200  {string} string "CSV payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Render failure"
// @Router      /confessions/export [get]
func (h *Handlers) ExportConfessions(c *gin.Context) {
	payload, err := h.ctrl.ExportCSV(c.Query("q"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(time.Now().UTC())+`"`)
	c.Data(http.StatusOK, export.MIMEType, []byte(payload))
}
