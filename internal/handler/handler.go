package handler

import (
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	FilmService   *service.FilmService
	GenreService  *service.GenreService
	PersonService *service.PersonService
}

// NewHandler 创建处理器
func NewHandler(reader *search.Reader) *Handler {
	return &Handler{
		FilmService:   service.NewFilmService(reader),
		GenreService:  service.NewGenreService(reader),
		PersonService: service.NewPersonService(reader),
	}
}

// pageQuery 公共分页参数
type pageQuery struct {
	PageSize   int `form:"page_size,default=50" binding:"omitempty,min=1,max=100"`
	PageNumber int `form:"page_number,default=1" binding:"omitempty,min=1"`
}
