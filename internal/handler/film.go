package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/utils"
)

// filmShort 列表场景的影片缩略视图
type filmShort struct {
	ID         string   `json:"uuid"`
	Title      string   `json:"title"`
	IMDbRating *float64 `json:"imdb_rating"`
}

func toFilmShorts(films []model.FilmDocument) []filmShort {
	shorts := make([]filmShort, 0, len(films))
	for _, film := range films {
		shorts = append(shorts, filmShort{
			ID:         film.ID,
			Title:      film.Title,
			IMDbRating: film.IMDbRating,
		})
	}
	return shorts
}

type filmListQuery struct {
	pageQuery
	Sort  string `form:"sort,default=-imdb_rating" binding:"omitempty,filmsort"`
	Genre string `form:"genre" binding:"omitempty,uuid4"`
}

// GetFilms 影片列表
// GET /api/v1/films?sort=-imdb_rating&genre=<uuid>&page_size=50&page_number=1
func (h *Handler) GetFilms(c *gin.Context) {
	var q filmListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, "查询参数无效")
		return
	}

	sortOrder := "asc"
	if strings.HasPrefix(q.Sort, "-") {
		sortOrder = "desc"
	}

	films, err := h.FilmService.List(sortOrder, q.Genre, q.PageSize, q.PageNumber)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影片查询失败")
		return
	}
	if len(films) == 0 {
		utils.Error(c, http.StatusNotFound, "未找到影片")
		return
	}

	utils.Success(c, toFilmShorts(films))
}

// SearchFilms 影片全文搜索
// GET /api/v1/films/search?query=star&page_size=50&page_number=1
func (h *Handler) SearchFilms(c *gin.Context) {
	var q struct {
		pageQuery
		Query string `form:"query" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, "查询参数无效")
		return
	}

	films, err := h.FilmService.Search(q.Query, q.PageSize, q.PageNumber)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影片搜索失败")
		return
	}
	if len(films) == 0 {
		utils.Error(c, http.StatusNotFound, "未找到影片")
		return
	}

	utils.Success(c, toFilmShorts(films))
}

// GetFilm 影片详情
// GET /api/v1/films/:id
func (h *Handler) GetFilm(c *gin.Context) {
	film, err := h.FilmService.GetByID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "影片查询失败")
		return
	}
	if film == nil {
		utils.Error(c, http.StatusNotFound, "影片不存在")
		return
	}

	utils.Success(c, film)
}
