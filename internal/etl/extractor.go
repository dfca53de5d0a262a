package etl

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/state"
)

// ContentSource 内容库的只读查询接口，由 repository.ContentRepository 实现
type ContentSource interface {
	ChangedPersons(since time.Time) ([]model.Person, error)
	ChangedGenres(since time.Time) ([]model.Genre, error)
	ChangedFilms(since time.Time) ([]model.FilmWork, error)
	FilmIDsByPersons(personIDs []uuid.UUID) ([]uuid.UUID, error)
	FilmIDsByGenres(genreIDs []uuid.UUID) ([]uuid.UUID, error)
	FullFilms(filmIDs []uuid.UUID) ([]model.FilmWork, error)
}

// Extractor 按当前水位从内容库提取五个变更流的批次。
// 提取是纯读操作，不产生任何跨批次副作用；水位由上层在投递成功后提交。
type Extractor struct {
	source ContentSource
	state  *state.State
}

// NewExtractor 创建提取器
func NewExtractor(source ContentSource, st *state.State) *Extractor {
	return &Extractor{source: source, state: st}
}

// Extract 产出一个周期的全部批次，顺序与 Streams 一致
func (e *Extractor) Extract() ([]Batch, error) {
	batches := make([]Batch, 0, len(Streams))
	for _, stream := range Streams {
		var (
			batch Batch
			err   error
		)
		switch stream {
		case StreamGenres:
			batch, err = e.extractGenres()
		case StreamPersons:
			batch, err = e.extractPersons()
		default:
			batch, err = e.extractFilmStream(e.specFor(stream))
		}
		if err != nil {
			return nil, fmt.Errorf("提取流 %s 失败: %w", stream, err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// since 读取某个流的水位。空串视为"从头开始"（零值时间）。
func (e *Extractor) since(stream Stream) (time.Time, string, error) {
	raw := e.state.Get(string(stream))
	if raw == "" {
		return time.Time{}, "", nil
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("流 %s 的水位 %q 无法解析: %w", stream, raw, err)
	}
	return ts, raw, nil
}

// formatWatermark 水位的持久化格式
func formatWatermark(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

// extractGenres 类型流：直接透传变更记录
func (e *Extractor) extractGenres() (Batch, error) {
	since, prev, err := e.since(StreamGenres)
	if err != nil {
		return Batch{}, err
	}

	genres, err := e.source.ChangedGenres(since)
	if err != nil {
		return Batch{}, err
	}
	if len(genres) == 0 {
		return Batch{Stream: StreamGenres, NewWatermark: prev}, nil
	}

	return Batch{
		Stream:       StreamGenres,
		NewWatermark: formatWatermark(maxModified(genres, func(g model.Genre) time.Time { return g.Modified })),
		Genres:       genres,
	}, nil
}

// extractPersons 影人流：直接透传变更记录
func (e *Extractor) extractPersons() (Batch, error) {
	since, prev, err := e.since(StreamPersons)
	if err != nil {
		return Batch{}, err
	}

	persons, err := e.source.ChangedPersons(since)
	if err != nil {
		return Batch{}, err
	}
	if len(persons) == 0 {
		return Batch{Stream: StreamPersons, NewWatermark: prev}, nil
	}

	return Batch{
		Stream:       StreamPersons,
		NewWatermark: formatWatermark(maxModified(persons, func(p model.Person) time.Time { return p.Modified })),
		Persons:      persons,
	}, nil
}

// filmStreamSpec 描述一个产出影片聚合的流：
// changed 返回自 since 以来变更的源实体 id 及其最大 modified；
// linked 把源实体 id 映射为受波及的影片 id，nil 表示 changed 返回的就是影片 id。
type filmStreamSpec struct {
	stream  Stream
	changed func(since time.Time) ([]uuid.UUID, time.Time, error)
	linked  func(ids []uuid.UUID) ([]uuid.UUID, error)
}

func (e *Extractor) specFor(stream Stream) filmStreamSpec {
	switch stream {
	case StreamFilmsByPerson:
		return filmStreamSpec{
			stream:  StreamFilmsByPerson,
			changed: e.changedPersonIDs,
			linked:  e.source.FilmIDsByPersons,
		}
	case StreamFilmsByGenre:
		return filmStreamSpec{
			stream:  StreamFilmsByGenre,
			changed: e.changedGenreIDs,
			linked:  e.source.FilmIDsByGenres,
		}
	default:
		return filmStreamSpec{
			stream:  StreamFilmWorks,
			changed: e.changedFilmIDs,
		}
	}
}

// extractFilmStream 影片类流的统一提取流程。
// 源实体有变更但没有波及任何影片时，批次为空但水位照常前移——
// 源变更本身就是进度的证据。
func (e *Extractor) extractFilmStream(spec filmStreamSpec) (Batch, error) {
	since, prev, err := e.since(spec.stream)
	if err != nil {
		return Batch{}, err
	}

	ids, maxMod, err := spec.changed(since)
	if err != nil {
		return Batch{}, err
	}
	if len(ids) == 0 {
		return Batch{Stream: spec.stream, NewWatermark: prev}, nil
	}
	watermark := formatWatermark(maxMod)

	if spec.linked != nil {
		ids, err = spec.linked(ids)
		if err != nil {
			return Batch{}, err
		}
		if len(ids) == 0 {
			return Batch{Stream: spec.stream, NewWatermark: watermark}, nil
		}
	}

	films, err := e.source.FullFilms(ids)
	if err != nil {
		return Batch{}, err
	}

	return Batch{
		Stream:       spec.stream,
		NewWatermark: watermark,
		Films:        films,
	}, nil
}

func (e *Extractor) changedPersonIDs(since time.Time) ([]uuid.UUID, time.Time, error) {
	persons, err := e.source.ChangedPersons(since)
	if err != nil || len(persons) == 0 {
		return nil, time.Time{}, err
	}
	ids := make([]uuid.UUID, 0, len(persons))
	for _, p := range persons {
		ids = append(ids, p.ID)
	}
	return ids, maxModified(persons, func(p model.Person) time.Time { return p.Modified }), nil
}

func (e *Extractor) changedGenreIDs(since time.Time) ([]uuid.UUID, time.Time, error) {
	genres, err := e.source.ChangedGenres(since)
	if err != nil || len(genres) == 0 {
		return nil, time.Time{}, err
	}
	ids := make([]uuid.UUID, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids, maxModified(genres, func(g model.Genre) time.Time { return g.Modified }), nil
}

func (e *Extractor) changedFilmIDs(since time.Time) ([]uuid.UUID, time.Time, error) {
	films, err := e.source.ChangedFilms(since)
	if err != nil || len(films) == 0 {
		return nil, time.Time{}, err
	}
	ids := make([]uuid.UUID, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids, maxModified(films, func(f model.FilmWork) time.Time { return f.Modified }), nil
}

// maxModified 批次内最大的 modified 时间戳
func maxModified[T any](items []T, modified func(T) time.Time) time.Time {
	var max time.Time
	for _, item := range items {
		if ts := modified(item); ts.After(max) {
			max = ts
		}
	}
	return max
}
