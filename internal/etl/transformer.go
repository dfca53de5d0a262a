package etl

import (
	"strings"

	"github.com/user/filmsync/internal/model"
)

// Transformer 把内容库记录转换为搜索文档。
// 纯函数，不触网；输入不合法属于编程错误而非运行期故障。
type Transformer struct{}

// NewTransformer 创建转换器
func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformFilms 合并多个来源的影片聚合并转换为文档。
// 同一影片可能同时经由自身变更、影人变更、类型变更出现在多个批次里，
// 按 id 去重，保留先出现的——FullFilms 对同一 id 总是返回当前聚合，任取其一都正确。
func (t *Transformer) TransformFilms(filmLists [][]model.FilmWork) []model.FilmDocument {
	seen := make(map[string]bool)
	docs := make([]model.FilmDocument, 0)
	for _, films := range filmLists {
		for _, film := range films {
			id := film.ID.String()
			if seen[id] {
				continue
			}
			seen[id] = true
			docs = append(docs, t.transformFilm(film))
		}
	}
	return docs
}

// TransformGenres 类型记录到文档的字段投影
func (t *Transformer) TransformGenres(genres []model.Genre) []model.GenreDocument {
	docs := make([]model.GenreDocument, 0, len(genres))
	for _, genre := range genres {
		docs = append(docs, model.GenreDocument{
			ID:   genre.ID.String(),
			Name: genre.Name,
		})
	}
	return docs
}

// TransformPersons 影人记录到文档的字段投影
func (t *Transformer) TransformPersons(persons []model.Person) []model.PersonDocument {
	docs := make([]model.PersonDocument, 0, len(persons))
	for _, person := range persons {
		docs = append(docs, model.PersonDocument{
			ID:   person.ID.String(),
			Name: person.FullName,
		})
	}
	return docs
}

// transformFilm 转换单部影片
func (t *Transformer) transformFilm(film model.FilmWork) model.FilmDocument {
	// 收集类型，名称为空的关联直接丢弃
	genres := make([]model.GenreRef, 0, len(film.Genres))
	for _, gfw := range film.Genres {
		if gfw.Genre.Name == "" {
			continue
		}
		genres = append(genres, model.GenreRef{
			ID:   gfw.Genre.ID.String(),
			Name: gfw.Genre.Name,
		})
	}

	directors, actors, writers := groupPersonsByRole(film.Persons)

	description := ""
	if film.Description != nil {
		description = *film.Description
	}

	return model.FilmDocument{
		ID:             film.ID.String(),
		IMDbRating:     film.Rating,
		Genres:         genres,
		Title:          film.Title,
		Description:    description,
		DirectorsNames: joinNames(directors),
		ActorsNames:    joinNames(actors),
		WritersNames:   joinNames(writers),
		Directors:      directors,
		Actors:         actors,
		Writers:        writers,
	}
}

// groupPersonsByRole 按角色分组影人关联
func groupPersonsByRole(links []model.PersonFilmWork) (directors, actors, writers []model.PersonRef) {
	directors = []model.PersonRef{}
	actors = []model.PersonRef{}
	writers = []model.PersonRef{}

	for _, pfw := range links {
		if pfw.Person.FullName == "" {
			continue
		}
		ref := model.PersonRef{
			ID:   pfw.Person.ID.String(),
			Name: pfw.Person.FullName,
		}
		switch pfw.Role {
		case model.RoleDirector:
			directors = append(directors, ref)
		case model.RoleActor:
			actors = append(actors, ref)
		case model.RoleWriter:
			writers = append(writers, ref)
		}
	}
	return directors, actors, writers
}

// joinNames 拼接全文搜索用的姓名串
func joinNames(refs []model.PersonRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
