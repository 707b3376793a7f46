package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bibliotech/internal/domains/author/model"
	"bibliotech/internal/session"
	"bibliotech/internal/shared/response"
)

type AuthorHandler struct {
	session *session.Session
}

func NewAuthorHandler(s *session.Session) *AuthorHandler {
	return &AuthorHandler{session: s}
}

// RegisterRoutes mounts the author endpoints on rg.
func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	page := h.session.AuthorsPage()

	authors := rg.Group("/authors")
	{
		authors.GET("", listPage(page))
		authors.POST("", h.Create)
		authors.PUT("/:id", h.Update)
		authors.DELETE("/:id", h.Delete)
		authors.GET("/:id/books", h.Books)

		authors.POST("/view/search", searchPage(page))
		authors.POST("/view/sort", sortPage(page))
		authors.POST("/view/page", gotoPage(page))
	}
}

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.AuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.session.Authors().Add(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *AuthorHandler) Update(c *gin.Context) {
	var req model.AuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.session.Authors().Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *AuthorHandler) Delete(c *gin.Context) {
	if err := h.session.Authors().Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Books lists the joined books of one author.
func (h *AuthorHandler) Books(c *gin.Context) {
	id := c.Param("id")
	if !h.session.Authors().Exists(id) {
		response.NotFound(c, model.ErrAuthorNotFound.Error())
		return
	}
	response.Success(c, http.StatusOK, h.session.AuthorBooks(id))
}
