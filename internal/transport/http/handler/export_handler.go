package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/service"
	"staffdesk/internal/transport/http/ez"
	resp "staffdesk/internal/transport/http/response"
)

type ExportHandler struct {
	users   *service.UserService
	exports *service.ExportService
	maxRows int
}

func NewExportHandler(users *service.UserService, exports *service.ExportService, maxRows int) *ExportHandler {
	return &ExportHandler{users: users, exports: exports, maxRows: maxRows}
}

// Mount registers the document downloads. These bypass the JSON envelope
// and stream the rendered blob directly.
func (h *ExportHandler) Mount(authed *gin.RouterGroup) {
	authed.POST("/users/export/pdf", h.download(
		"application/pdf", "users.pdf",
		func(rows []service.UserView) ([]byte, error) { return h.exports.RenderPDF(rows) },
	))
	authed.POST("/users/export/xlsx", h.download(
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "users.xlsx",
		func(rows []service.UserView) ([]byte, error) { return h.exports.RenderSheet(rows) },
	))
}

func (h *ExportHandler) download(contentType, filename string, render func([]service.UserView) ([]byte, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p service.ListingParams
		if err := c.ShouldBindQuery(&p); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		// Cap the unpaginated mode at the query so an export never
		// materializes the whole table just to slice it.
		if h.maxRows > 0 && strings.TrimSpace(p.Page) == "" && strings.TrimSpace(p.Limit) == "" {
			p.Page, p.Limit = "1", strconv.Itoa(h.maxRows)
		}
		res, err := h.users.List(p)
		if err != nil {
			writeEnvelopeErr(c, mapErr(err))
			return
		}
		rows := res.Data
		if h.maxRows > 0 && len(rows) > h.maxRows {
			// Backstop for an explicit oversized limit in the request.
			rows = rows[:h.maxRows]
		}
		blob, err := render(rows)
		if err != nil {
			writeEnvelopeErr(c, ez.Internal("render export failed", err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, contentType, blob)
	}
}

func writeEnvelopeErr(c *gin.Context, err error) {
	var ae *ez.AErr
	if errors.As(err, &ae) {
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
}
