package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/filmsync/internal/utils"
)

// GetGenres 类型列表
// GET /api/v1/genres?page_size=50&page_number=1
func (h *Handler) GetGenres(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, "查询参数无效")
		return
	}

	genres, err := h.GenreService.List(q.PageSize, q.PageNumber)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "类型查询失败")
		return
	}
	if len(genres) == 0 {
		utils.Error(c, http.StatusNotFound, "未找到类型")
		return
	}

	utils.Success(c, genres)
}

// GetGenre 类型详情
// GET /api/v1/genres/:id
func (h *Handler) GetGenre(c *gin.Context) {
	genre, err := h.GenreService.GetByID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "类型查询失败")
		return
	}
	if genre == nil {
		utils.Error(c, http.StatusNotFound, "类型不存在")
		return
	}

	utils.Success(c, genre)
}
