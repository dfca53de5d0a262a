package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/state"
)

// DocumentStore 文档库的批量写入接口，由 search.Loader 实现
type DocumentStore interface {
	Load(index string, docs []model.Document) error
}

// CycleError 一个同步周期内的失败，带失败阶段便于排查
type CycleError struct {
	Stage string
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s 阶段失败: %v", e.Stage, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// Pipeline 同步周期的调度器。
// 周期串行执行，不会重叠；任何周期内错误都被记录并吞掉，进程本身不退出。
type Pipeline struct {
	extractor   *Extractor
	transformer *Transformer
	store       DocumentStore
	state       *state.State
	interval    time.Duration
}

// NewPipeline 组装同步管道，所有依赖显式注入
func NewPipeline(
	extractor *Extractor,
	transformer *Transformer,
	store DocumentStore,
	st *state.State,
	interval time.Duration,
) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		transformer: transformer,
		store:       store,
		state:       st,
		interval:    interval,
	}
}

// RunCycle 执行一个完整的提取-转换-写入-提交周期。
// 水位只在三个索引全部写入成功之后提交；写入失败则本周期不提交任何水位，
// 下个周期会从原地重新推导出相同（或超集）的变更，这就是至少一次投递的来源。
func (p *Pipeline) RunCycle() *CycleError {
	batches, err := p.extractor.Extract()
	if err != nil {
		return &CycleError{Stage: "extract", Err: err}
	}

	byStream := make(map[Stream]Batch, len(batches))
	for _, batch := range batches {
		byStream[batch.Stream] = batch
	}

	// 三个影片来源在这里汇合去重
	films := p.transformer.TransformFilms([][]model.FilmWork{
		byStream[StreamFilmsByPerson].Films,
		byStream[StreamFilmsByGenre].Films,
		byStream[StreamFilmWorks].Films,
	})
	genres := p.transformer.TransformGenres(byStream[StreamGenres].Genres)
	persons := p.transformer.TransformPersons(byStream[StreamPersons].Persons)

	if err := p.store.Load(search.IndexMovies, asDocuments(films)); err != nil {
		return &CycleError{Stage: "load", Err: err}
	}
	if err := p.store.Load(search.IndexGenres, asDocuments(genres)); err != nil {
		return &CycleError{Stage: "load", Err: err}
	}
	if err := p.store.Load(search.IndexPersons, asDocuments(persons)); err != nil {
		return &CycleError{Stage: "load", Err: err}
	}

	// 投递全部成功，提交各流水位。
	// 提交中途被杀只会造成未提交流的重复处理，不会丢数据。
	for _, batch := range batches {
		if batch.NewWatermark == "" {
			continue
		}
		if err := p.state.Set(string(batch.Stream), batch.NewWatermark); err != nil {
			return &CycleError{Stage: "commit", Err: err}
		}
	}
	return nil
}

// Start 启动周期循环，直到 ctx 取消。
// 取消只在两个周期之间生效，进行中的周期会跑完。
func (p *Pipeline) Start(ctx context.Context) {
	log.Printf("[Pipeline] 同步循环启动，周期间隔 %v", p.interval)
	for {
		if cerr := p.RunCycle(); cerr != nil {
			log.Printf("[Pipeline] 周期失败: %v", cerr)
		}

		select {
		case <-ctx.Done():
			log.Println("[Pipeline] 收到退出信号，同步循环停止")
			return
		case <-time.After(p.interval):
		}
	}
}

// asDocuments 文档切片到接口切片的转换
func asDocuments[T model.Document](docs []T) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc)
	}
	return out
}
