package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/filmsync/internal/handler"
)

// RegisterRoutes 注册路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	registerValidations()

	v1 := r.Group("/api/v1")
	{
		films := v1.Group("/films")
		{
			films.GET("", h.GetFilms)
			films.GET("/search", h.SearchFilms)
			films.GET("/:id", h.GetFilm)
		}

		genres := v1.Group("/genres")
		{
			genres.GET("", h.GetGenres)
			genres.GET("/:id", h.GetGenre)
		}

		persons := v1.Group("/persons")
		{
			persons.GET("/search", h.SearchPersons)
			persons.GET("/:id", h.GetPerson)
			persons.GET("/:id/film", h.GetPersonFilms)
		}
	}
}

// registerValidations 注册自定义参数校验
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// sort 参数只接受 imdb_rating / -imdb_rating
	_ = v.RegisterValidation("filmsort", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "imdb_rating" || value == "-imdb_rating"
	})
}
