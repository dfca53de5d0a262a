package etl

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/user/filmsync/internal/model"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func testFilm(id uuid.UUID, title string) model.FilmWork {
	return model.FilmWork{
		ID:       id,
		Title:    title,
		Type:     "movie",
		Modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransformFilmsDeduplicatesAcrossBatches(t *testing.T) {
	tr := NewTransformer()

	shared := uuid.New()
	other := uuid.New()

	// 同一影片同时出现在直接变更和影人波及两个批次里
	docs := tr.TransformFilms([][]model.FilmWork{
		{testFilm(shared, "去重目标"), testFilm(other, "另一部")},
		{testFilm(shared, "去重目标")},
	})

	if len(docs) != 2 {
		t.Fatalf("文档数 = %d，期望 2", len(docs))
	}
	seen := map[string]int{}
	for _, doc := range docs {
		seen[doc.ID]++
	}
	if seen[shared.String()] != 1 {
		t.Errorf("影片 %s 出现 %d 次，期望恰好 1 次", shared, seen[shared.String()])
	}
}

func TestTransformFilmDropsEmptyGenreName(t *testing.T) {
	tr := NewTransformer()

	film := testFilm(uuid.New(), "双类型影片")
	keep := uuid.New()
	film.Genres = []model.GenreFilmWork{
		{GenreID: keep, Genre: model.Genre{ID: keep, Name: "Sci-Fi"}},
		{GenreID: uuid.New(), Genre: model.Genre{ID: uuid.New(), Name: ""}},
	}

	docs := tr.TransformFilms([][]model.FilmWork{{film}})

	if len(docs) != 1 {
		t.Fatalf("文档数 = %d", len(docs))
	}
	if len(docs[0].Genres) != 1 {
		t.Fatalf("类型数 = %d，名称为空的关联应被丢弃", len(docs[0].Genres))
	}
	if docs[0].Genres[0].Name != "Sci-Fi" {
		t.Errorf("保留的类型 = %q", docs[0].Genres[0].Name)
	}
}

func TestTransformFilmGroupsPersonsByRole(t *testing.T) {
	tr := NewTransformer()

	film := testFilm(uuid.New(), "角色分组")
	director := model.Person{ID: uuid.New(), FullName: "Denis V"}
	actorA := model.Person{ID: uuid.New(), FullName: "Amy A"}
	actorB := model.Person{ID: uuid.New(), FullName: "Jeremy R"}
	writer := model.Person{ID: uuid.New(), FullName: "Eric H"}
	film.Persons = []model.PersonFilmWork{
		{Role: model.RoleDirector, Person: director},
		{Role: model.RoleActor, Person: actorA},
		{Role: model.RoleActor, Person: actorB},
		{Role: model.RoleWriter, Person: writer},
	}

	doc := tr.TransformFilms([][]model.FilmWork{{film}})[0]

	if len(doc.Directors) != 1 || doc.Directors[0].Name != "Denis V" {
		t.Errorf("Directors = %v", doc.Directors)
	}
	if len(doc.Actors) != 2 {
		t.Errorf("Actors = %v", doc.Actors)
	}
	if len(doc.Writers) != 1 {
		t.Errorf("Writers = %v", doc.Writers)
	}
	if doc.ActorsNames != "Amy A, Jeremy R" {
		t.Errorf("ActorsNames = %q，期望用逗号加空格拼接", doc.ActorsNames)
	}
	if doc.DirectorsNames != "Denis V" {
		t.Errorf("DirectorsNames = %q", doc.DirectorsNames)
	}
}

func TestTransformFilmEmptyRoleGroups(t *testing.T) {
	tr := NewTransformer()

	doc := tr.TransformFilms([][]model.FilmWork{{testFilm(uuid.New(), "无演职员")}})[0]

	// 空角色组必须是空列表和空串，不能是 nil/缺失
	if doc.Actors == nil || len(doc.Actors) != 0 {
		t.Errorf("Actors = %#v，期望空列表", doc.Actors)
	}
	if doc.ActorsNames != "" {
		t.Errorf("ActorsNames = %q，期望空串", doc.ActorsNames)
	}
	if doc.Genres == nil {
		t.Errorf("Genres 不应为 nil")
	}
}

func TestTransformFilmMissingDescription(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		name        string
		description *string
		want        string
	}{
		{name: "缺失的简介变为空串", description: nil, want: ""},
		{name: "已有简介原样保留", description: strPtr("一部电影"), want: "一部电影"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			film := testFilm(uuid.New(), "简介")
			film.Description = tt.description
			doc := tr.TransformFilms([][]model.FilmWork{{film}})[0]
			if doc.Description != tt.want {
				t.Errorf("Description = %q，期望 %q", doc.Description, tt.want)
			}
		})
	}
}

func TestTransformFilmFields(t *testing.T) {
	tr := NewTransformer()

	id := uuid.New()
	film := testFilm(id, "Star Wars")
	film.Rating = floatPtr(8.5)

	doc := tr.TransformFilms([][]model.FilmWork{{film}})[0]

	if doc.ID != id.String() || doc.Title != "Star Wars" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.IMDbRating == nil || *doc.IMDbRating != 8.5 {
		t.Errorf("IMDbRating = %v", doc.IMDbRating)
	}
}

func TestTransformGenresAndPersons(t *testing.T) {
	tr := NewTransformer()

	genreID, personID := uuid.New(), uuid.New()
	genres := tr.TransformGenres([]model.Genre{{ID: genreID, Name: "Drama"}})
	persons := tr.TransformPersons([]model.Person{{ID: personID, FullName: "Greta G"}})

	wantGenres := []model.GenreDocument{{ID: genreID.String(), Name: "Drama"}}
	if !reflect.DeepEqual(genres, wantGenres) {
		t.Errorf("TransformGenres = %v，期望 %v", genres, wantGenres)
	}
	wantPersons := []model.PersonDocument{{ID: personID.String(), Name: "Greta G"}}
	if !reflect.DeepEqual(persons, wantPersons) {
		t.Errorf("TransformPersons = %v，期望 %v", persons, wantPersons)
	}
}
