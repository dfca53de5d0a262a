package etl

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/state"
)

// fakeStore 测试用文档库，按索引记录写入的文档
type fakeStore struct {
	loads   map[string][][]model.Document
	failOn  string
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{loads: map[string][][]model.Document{}}
}

func (f *fakeStore) Load(index string, docs []model.Document) error {
	if f.failOn == index {
		return f.loadErr
	}
	f.loads[index] = append(f.loads[index], docs)
	return nil
}

// lastLoad 某索引最近一次写入的文档
func (f *fakeStore) lastLoad(index string) []model.Document {
	calls := f.loads[index]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

func newTestPipeline(source ContentSource, store DocumentStore, storage state.Storage) (*Pipeline, *state.State) {
	st := state.NewState(storage)
	return NewPipeline(NewExtractor(source, st), NewTransformer(), store, st, time.Second), st
}

func TestRunCycleCommitsWatermarksAfterLoad(t *testing.T) {
	source := &fakeSource{
		genres: []model.Genre{{ID: uuid.New(), Name: "Drama", Modified: ts(3, 0)}},
		persons: []model.Person{
			{ID: uuid.New(), FullName: "P", Modified: ts(4, 0)},
		},
		linkedByPerson: nil,
		linkedByGenre:  nil,
	}
	store := newFakeStore()
	pipeline, st := newTestPipeline(source, store, newMemStorage())

	if cerr := pipeline.RunCycle(); cerr != nil {
		t.Fatalf("RunCycle() = %v", cerr)
	}

	// 有进度的流水位提交
	if got := st.Get(string(StreamGenres)); got != wm(3, 0) {
		t.Errorf("genres 水位 = %q，期望 %q", got, wm(3, 0))
	}
	if got := st.Get(string(StreamPersons)); got != wm(4, 0) {
		t.Errorf("persons 水位 = %q，期望 %q", got, wm(4, 0))
	}
	// 影人有变更，fw_by_person 即便没有波及影片也要前移
	if got := st.Get(string(StreamFilmsByPerson)); got != wm(4, 0) {
		t.Errorf("fw_by_person 水位 = %q，期望 %q", got, wm(4, 0))
	}
	// 没有任何进度的流不提交
	if got := st.Get(string(StreamFilmWorks)); got != "" {
		t.Errorf("filmworks 水位 = %q，期望未提交", got)
	}
}

func TestRunCycleLoaderFailureCommitsNothing(t *testing.T) {
	source := &fakeSource{
		genres: []model.Genre{{ID: uuid.New(), Name: "Drama", Modified: ts(3, 0)}},
	}
	store := newFakeStore()
	store.failOn = search.IndexGenres
	store.loadErr = errors.New("bulk 请求超时")
	pipeline, st := newTestPipeline(source, store, newMemStorage())

	cerr := pipeline.RunCycle()
	if cerr == nil {
		t.Fatal("写入失败时 RunCycle 应返回错误")
	}
	if cerr.Stage != "load" {
		t.Errorf("Stage = %q，期望 load", cerr.Stage)
	}

	// 任何流的水位都不能提交
	for _, stream := range Streams {
		if got := st.Get(string(stream)); got != "" {
			t.Errorf("流 %s 的水位 = %q，写入失败后不应提交", stream, got)
		}
	}
}

func TestRunCycleRederivesAfterFailure(t *testing.T) {
	// 至少一次投递：失败周期之后，下个周期从原地重新推导同样的变更
	source := &fakeSource{
		genres: []model.Genre{{ID: uuid.New(), Name: "Drama", Modified: ts(3, 0)}},
	}
	store := newFakeStore()
	store.failOn = search.IndexGenres
	store.loadErr = errors.New("连接被拒绝")
	pipeline, st := newTestPipeline(source, store, newMemStorage())

	if cerr := pipeline.RunCycle(); cerr == nil {
		t.Fatal("第一个周期应失败")
	}

	// 故障恢复
	store.failOn = ""
	if cerr := pipeline.RunCycle(); cerr != nil {
		t.Fatalf("第二个周期失败: %v", cerr)
	}

	docs := store.lastLoad(search.IndexGenres)
	if len(docs) != 1 {
		t.Fatalf("重新推导后应重新投递同一批文档，得到 %d 个", len(docs))
	}
	if got := st.Get(string(StreamGenres)); got != wm(3, 0) {
		t.Errorf("genres 水位 = %q", got)
	}
}

func TestRunCycleDeduplicatesFilmAcrossStreams(t *testing.T) {
	// 同一影片同时经由自身变更和影人变更出现，只能写一个文档
	filmID := uuid.New()
	aggregate := model.FilmWork{ID: filmID, Title: "同时变更", Modified: ts(9, 0)}
	source := &fakeSource{
		persons: []model.Person{
			{ID: uuid.New(), FullName: "P", Modified: ts(9, 30)},
		},
		linkedByPerson: []uuid.UUID{filmID},
		films:          []model.FilmWork{{ID: filmID, Modified: ts(9, 0)}},
		full:           []model.FilmWork{aggregate},
	}
	store := newFakeStore()
	pipeline, _ := newTestPipeline(source, store, newMemStorage())

	if cerr := pipeline.RunCycle(); cerr != nil {
		t.Fatalf("RunCycle() = %v", cerr)
	}

	docs := store.lastLoad(search.IndexMovies)
	if len(docs) != 1 {
		t.Fatalf("movies 写入 %d 个文档，期望恰好 1 个", len(docs))
	}
	if docs[0].DocID() != filmID.String() {
		t.Errorf("文档 id = %s", docs[0].DocID())
	}
}

func TestRunCycleIdempotentRedelivery(t *testing.T) {
	// 同一源状态下重复跑周期，投递的文档内容完全一致
	filmID := uuid.New()
	source := &fakeSource{
		films: []model.FilmWork{{ID: filmID, Modified: ts(9, 0)}},
		full:  []model.FilmWork{{ID: filmID, Title: "重复投递", Modified: ts(9, 0)}},
	}
	store := newFakeStore()

	// 两个独立的管道实例共享同一源，但各自从零水位开始
	first, _ := newTestPipeline(source, store, newMemStorage())
	if cerr := first.RunCycle(); cerr != nil {
		t.Fatalf("第一次 RunCycle() = %v", cerr)
	}
	second, _ := newTestPipeline(source, store, newMemStorage())
	if cerr := second.RunCycle(); cerr != nil {
		t.Fatalf("第二次 RunCycle() = %v", cerr)
	}

	calls := store.loads[search.IndexMovies]
	if len(calls) != 2 {
		t.Fatalf("movies 写入了 %d 次", len(calls))
	}
	if !reflect.DeepEqual(calls[0], calls[1]) {
		t.Errorf("重复投递的文档不一致:\n第一次 %v\n第二次 %v", calls[0], calls[1])
	}
}

func TestRunCycleAdvancedWatermarkNarrowsNextPoll(t *testing.T) {
	source := &fakeSource{
		persons: []model.Person{
			{ID: uuid.New(), FullName: "P", Modified: ts(4, 0)},
		},
	}
	store := newFakeStore()
	pipeline, _ := newTestPipeline(source, store, newMemStorage())

	if cerr := pipeline.RunCycle(); cerr != nil {
		t.Fatalf("RunCycle() = %v", cerr)
	}

	// 第二个周期的 since 应为已提交的水位
	source.persons = nil
	if cerr := pipeline.RunCycle(); cerr != nil {
		t.Fatalf("第二个周期失败: %v", cerr)
	}
	if !source.personsSince.Equal(ts(4, 0)) {
		t.Errorf("第二个周期的 since = %v，期望 %v", source.personsSince, ts(4, 0))
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	source := &fakeSource{}
	store := newFakeStore()
	pipeline, _ := newTestPipeline(source, store, newMemStorage())
	pipeline.interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		pipeline.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start 未在 ctx 取消后退出")
	}
}
