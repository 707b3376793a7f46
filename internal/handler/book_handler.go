package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibliotech/internal/domains/book/model"
	"bibliotech/internal/session"
	"bibliotech/internal/shared/response"
)

type BookHandler struct {
	session *session.Session
}

func NewBookHandler(s *session.Session) *BookHandler {
	return &BookHandler{session: s}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	page := h.session.BooksPage()

	books := rg.Group("/books")
	{
		books.GET("", listPage(page))
		books.POST("", h.Create)
		books.PUT("/:id", h.Update)
		books.DELETE("/:id", h.Delete)

		books.POST("/view/search", searchPage(page))
		books.POST("/view/sort", sortPage(page))
		books.POST("/view/page", gotoPage(page))
	}
}

// bookRequest accepts the year either as a JSON string or a number; it is
// validated as text either way.
type bookRequest struct {
	AuthorID string `json:"authorId"`
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Year     any    `json:"year"`
}

func (r bookRequest) input() model.BookInput {
	year := ""
	switch v := r.Year.(type) {
	case nil:
	case string:
		year = v
	case float64:
		// No rounding: 1812.6 must reach the 4-digit check as written.
		year = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		year = fmt.Sprint(v)
	}
	return model.BookInput{AuthorID: r.AuthorID, ISBN: r.ISBN, Title: r.Title, Year: year}
}

func (h *BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.session.Books().Add(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *BookHandler) Update(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.session.Books().Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.session.Books().Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
