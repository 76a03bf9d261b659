package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

type RootHandler struct {
	baseURL string
}

func NewRootHandler(baseURL string) *RootHandler {
	return &RootHandler{baseURL: baseURL}
}

// Index handles GET /.
//
// @Summary      Repository root
// @Tags         root
// @Produce      json
// @Success      200  {object}  rootResponse
// @Router       / [get]
func (h *RootHandler) Index(c echo.Context) error {
	base := baseURL(c, h.baseURL)
	return c.JSON(http.StatusOK, rootResponse{Links: links{
		domain.ResourceUser: {Href: domain.CollectionAddress(base, domain.ResourceUser)},
		domain.ResourceNote: {Href: domain.CollectionAddress(base, domain.ResourceNote)},
	}})
}
