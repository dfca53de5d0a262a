package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/user/filmsync/internal/model"
)

// Reader 读 API 对搜索引擎的查询入口。
// 传输层重试交给客户端自身的 MaxRetries。
type Reader struct {
	es *elasticsearch.Client
}

// NewReader 创建查询器
func NewReader(es *elasticsearch.Client) *Reader {
	return &Reader{es: es}
}

// getDoc 按 id 点查，未找到返回 nil
func getDoc[T any](r *Reader, index, id string) (*T, error) {
	res, err := r.es.Get(index, id)
	if err != nil {
		return nil, fmt.Errorf("查询索引 %q 失败: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("查询索引 %q 返回错误: %s", index, res.String())
	}

	var body struct {
		Source T `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	return &body.Source, nil
}

// searchDocs 执行 search 请求并抽取 _source 列表
func searchDocs[T any](r *Reader, index string, body map[string]any) ([]T, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("序列化查询失败: %w", err)
	}

	res, err := r.es.Search(
		r.es.Search.WithIndex(index),
		r.es.Search.WithBody(strings.NewReader(string(raw))),
	)
	if err != nil {
		return nil, fmt.Errorf("搜索索引 %q 失败: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("搜索索引 %q 返回错误: %s", index, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source T `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析搜索结果失败: %w", err)
	}

	docs := make([]T, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// pageBody 组装分页基础查询体
func pageBody(pageSize, pageNumber int) map[string]any {
	return map[string]any{
		"from": (pageNumber - 1) * pageSize,
		"size": pageSize,
	}
}

// GetFilm 按 id 查影片文档
func (r *Reader) GetFilm(id string) (*model.FilmDocument, error) {
	return getDoc[model.FilmDocument](r, IndexMovies, id)
}

// ListFilms 按评分排序列出影片，可按类型过滤
func (r *Reader) ListFilms(sortOrder, genreID string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	body := pageBody(pageSize, pageNumber)
	body["sort"] = []map[string]any{
		{"imdb_rating": map[string]any{"order": sortOrder, "missing": "_last"}},
	}
	if genreID != "" {
		body["query"] = map[string]any{
			"nested": map[string]any{
				"path":  "genres",
				"query": map[string]any{"term": map[string]any{"genres.id": genreID}},
			},
		}
	}
	return searchDocs[model.FilmDocument](r, IndexMovies, body)
}

// SearchFilms 按标题与简介全文搜索影片
func (r *Reader) SearchFilms(query string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	body := pageBody(pageSize, pageNumber)
	body["query"] = map[string]any{
		"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"title^2", "description"},
		},
	}
	return searchDocs[model.FilmDocument](r, IndexMovies, body)
}

// GetGenre 按 id 查类型文档
func (r *Reader) GetGenre(id string) (*model.GenreDocument, error) {
	return getDoc[model.GenreDocument](r, IndexGenres, id)
}

// ListGenres 列出全部类型
func (r *Reader) ListGenres(pageSize, pageNumber int) ([]model.GenreDocument, error) {
	body := pageBody(pageSize, pageNumber)
	body["sort"] = []map[string]any{
		{"name.keyword": map[string]any{"order": "asc"}},
	}
	return searchDocs[model.GenreDocument](r, IndexGenres, body)
}

// GetPerson 按 id 查影人文档
func (r *Reader) GetPerson(id string) (*model.PersonDocument, error) {
	return getDoc[model.PersonDocument](r, IndexPersons, id)
}

// SearchPersons 按姓名全文搜索影人
func (r *Reader) SearchPersons(query string, pageSize, pageNumber int) ([]model.PersonDocument, error) {
	body := pageBody(pageSize, pageNumber)
	body["query"] = map[string]any{
		"match": map[string]any{"name": query},
	}
	return searchDocs[model.PersonDocument](r, IndexPersons, body)
}

// FilmsByPerson 查询影人以任一角色参与过的影片
func (r *Reader) FilmsByPerson(personID string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	roles := []string{"directors", "actors", "writers"}
	should := make([]map[string]any, 0, len(roles))
	for _, role := range roles {
		should = append(should, map[string]any{
			"nested": map[string]any{
				"path":  role,
				"query": map[string]any{"term": map[string]any{role + ".id": personID}},
			},
		})
	}

	body := pageBody(pageSize, pageNumber)
	body["query"] = map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
	return searchDocs[model.FilmDocument](r, IndexMovies, body)
}
