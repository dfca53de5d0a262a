package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/utils"
	"gorm.io/gorm"
)

// ContentRepository 内容库只读查询。
// 所有查询都是无副作用的读操作，远程调用带有界重试。
type ContentRepository struct {
	db        *gorm.DB
	loadLimit int
}

// NewContentRepository 创建内容库仓库，loadLimit 限制单次轮询返回的行数
func NewContentRepository(db *gorm.DB, loadLimit int) *ContentRepository {
	return &ContentRepository{db: db, loadLimit: loadLimit}
}

// ChangedPersons 查询 since 之后有更新的影人，按 modified 升序，最多 loadLimit 条
func (r *ContentRepository) ChangedPersons(since time.Time) ([]model.Person, error) {
	var persons []model.Person
	err := utils.Retry("查询更新影人", func() error {
		persons = persons[:0]
		return r.db.
			Where("modified > ?", since).
			Order("modified asc").
			Limit(r.loadLimit).
			Find(&persons).Error
	})
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// ChangedGenres 查询 since 之后有更新的类型，按 modified 升序，最多 loadLimit 条
func (r *ContentRepository) ChangedGenres(since time.Time) ([]model.Genre, error) {
	var genres []model.Genre
	err := utils.Retry("查询更新类型", func() error {
		genres = genres[:0]
		return r.db.
			Where("modified > ?", since).
			Order("modified asc").
			Limit(r.loadLimit).
			Find(&genres).Error
	})
	if err != nil {
		return nil, err
	}
	return genres, nil
}

// ChangedFilms 查询 since 之后自身有更新的影片，只取 id 和 modified。
// 水位以这里的 modified 为准，后续的聚合补全不影响水位。
func (r *ContentRepository) ChangedFilms(since time.Time) ([]model.FilmWork, error) {
	var films []model.FilmWork
	err := utils.Retry("查询更新影片", func() error {
		films = films[:0]
		return r.db.
			Select("id", "modified").
			Where("modified > ?", since).
			Order("modified asc").
			Limit(r.loadLimit).
			Find(&films).Error
	})
	if err != nil {
		return nil, err
	}
	return films, nil
}

// FilmIDsByPersons 通过影人关联表查询受影响的影片 id（去重）
func (r *ContentRepository) FilmIDsByPersons(personIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	var filmIDs []uuid.UUID
	err := utils.Retry("查询影人关联影片", func() error {
		filmIDs = filmIDs[:0]
		return r.db.
			Model(&model.PersonFilmWork{}).
			Where("person_id IN ?", personIDs).
			Distinct().
			Limit(r.loadLimit).
			Pluck("film_work_id", &filmIDs).Error
	})
	if err != nil {
		return nil, err
	}
	return filmIDs, nil
}

// FilmIDsByGenres 通过类型关联表查询受影响的影片 id（去重）
func (r *ContentRepository) FilmIDsByGenres(genreIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(genreIDs) == 0 {
		return nil, nil
	}
	var filmIDs []uuid.UUID
	err := utils.Retry("查询类型关联影片", func() error {
		filmIDs = filmIDs[:0]
		return r.db.
			Model(&model.GenreFilmWork{}).
			Where("genre_id IN ?", genreIDs).
			Distinct().
			Limit(r.loadLimit).
			Pluck("film_work_id", &filmIDs).Error
	})
	if err != nil {
		return nil, err
	}
	return filmIDs, nil
}

// FullFilms 按 id 集合取完整影片聚合，类型与影人关联一并预加载。
// 聚合要么完整返回要么不返回，不存在半截聚合。
func (r *ContentRepository) FullFilms(filmIDs []uuid.UUID) ([]model.FilmWork, error) {
	if len(filmIDs) == 0 {
		return nil, nil
	}
	var films []model.FilmWork
	err := utils.Retry("查询影片聚合", func() error {
		films = films[:0]
		return r.db.
			Preload("Genres.Genre").
			Preload("Persons.Person").
			Where("id IN ?", filmIDs).
			Find(&films).Error
	})
	if err != nil {
		return nil, err
	}
	return films, nil
}
