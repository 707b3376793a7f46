package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bibliotech/internal/session"
	"bibliotech/internal/shared/response"
	"bibliotech/internal/view"
)

type searchRequest struct {
	Query string `json:"query"`
}

type sortRequest struct {
	Field string `json:"field" binding:"required"`
}

type pageRequest struct {
	Page int `json:"page" binding:"required"`
}

func listPage[T any](p *session.Page[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, p.View())
	}
}

func searchPage[T any](p *session.Page[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		p.SetQuery(req.Query)
		response.Success(c, http.StatusOK, p.View())
	}
}

func sortPage[T any](p *session.Page[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sortRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if err := p.ToggleSort(view.Field(req.Field)); err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, p.View())
	}
}

// gotoPage rejects pages outside [1, totalPages], as the pager buttons do.
func gotoPage[T any](p *session.Page[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if err := p.GoTo(req.Page); err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, p.View())
	}
}
