package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/filmsync/internal/utils"
)

// SearchPersons 影人搜索
// GET /api/v1/persons/search?query=george&page_size=50&page_number=1
func (h *Handler) SearchPersons(c *gin.Context) {
	var q struct {
		pageQuery
		Query string `form:"query" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, "查询参数无效")
		return
	}

	persons, err := h.PersonService.Search(q.Query, q.PageSize, q.PageNumber)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影人搜索失败")
		return
	}
	if len(persons) == 0 {
		utils.Error(c, http.StatusNotFound, "未找到影人")
		return
	}

	utils.Success(c, persons)
}

// GetPerson 影人详情
// GET /api/v1/persons/:id
func (h *Handler) GetPerson(c *gin.Context) {
	person, err := h.PersonService.GetByID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影人查询失败")
		return
	}
	if person == nil {
		utils.Error(c, http.StatusNotFound, "影人不存在")
		return
	}

	utils.Success(c, person)
}

// GetPersonFilms 影人参与的影片
// GET /api/v1/persons/:id/film
func (h *Handler) GetPersonFilms(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, "查询参数无效")
		return
	}

	films, err := h.PersonService.Films(c.Param("id"), q.PageSize, q.PageNumber)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影人影片查询失败")
		return
	}
	if len(films) == 0 {
		utils.Error(c, http.StatusNotFound, "未找到该影人参与的影片")
		return
	}

	utils.Success(c, toFilmShorts(films))
}
