package etl

import (
	"github.com/user/filmsync/internal/model"
)

// Stream 独立推进的变更流
type Stream string

const (
	// StreamPersons 影人自身的变更
	StreamPersons Stream = "persons"
	// StreamGenres 类型自身的变更
	StreamGenres Stream = "genres"
	// StreamFilmWorks 影片自身的变更
	StreamFilmWorks Stream = "filmworks"
	// StreamFilmsByPerson 经由变更影人波及的影片
	StreamFilmsByPerson Stream = "fw_by_person"
	// StreamFilmsByGenre 经由变更类型波及的影片
	StreamFilmsByGenre Stream = "fw_by_genre"
)

// Streams 固定的处理顺序，保证每个周期的行为可复现
var Streams = []Stream{
	StreamFilmsByPerson,
	StreamFilmsByGenre,
	StreamFilmWorks,
	StreamGenres,
	StreamPersons,
}

// Batch 单个变更流在一个周期内的产出。
// Stream 是变体标签，三个记录字段中只有与流对应的那个有值。
//
// NewWatermark 为空串表示该流尚无任何进度；
// 记录为空时 NewWatermark 等于上一周期的水位（没有证据就不声称进度），
// 否则等于本批记录中最大的 modified。
type Batch struct {
	Stream       Stream
	NewWatermark string

	Films   []model.FilmWork
	Genres  []model.Genre
	Persons []model.Person
}

// Empty 本批次是否没有任何记录
func (b Batch) Empty() bool {
	return len(b.Films) == 0 && len(b.Genres) == 0 && len(b.Persons) == 0
}
