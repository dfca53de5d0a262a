package service

import (
	"strconv"
	"time"

	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/utils"
)

// 详情缓存时长。列表/搜索结果由 SearchCache 自带 TTL 管理。
const detailCacheTTL = 5 * time.Minute

// FilmService 影片查询服务
type FilmService struct {
	reader    *search.Reader
	listCache *utils.SearchCache[[]model.FilmDocument]
}

// NewFilmService 创建影片服务
func NewFilmService(reader *search.Reader) *FilmService {
	return &FilmService{
		reader:    reader,
		listCache: utils.NewSearchCache[[]model.FilmDocument](1000, time.Minute),
	}
}

// GetByID 按 id 查影片，未找到返回 nil
func (s *FilmService) GetByID(id string) (*model.FilmDocument, error) {
	cacheKey := "film:" + id
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.(*model.FilmDocument), nil
	}

	film, err := s.reader.GetFilm(id)
	if err != nil {
		return nil, err
	}
	if film != nil {
		utils.CacheSet(cacheKey, film, detailCacheTTL)
	}
	return film, nil
}

// List 按评分排序列出影片，可按类型过滤
func (s *FilmService) List(sortOrder, genreID string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	key := utils.CacheKey("films:list", sortOrder, genreID,
		strconv.Itoa(pageSize), strconv.Itoa(pageNumber))
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	films, err := s.reader.ListFilms(sortOrder, genreID, pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, films)
	return films, nil
}

// Search 按关键词全文搜索影片
func (s *FilmService) Search(query string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	key := utils.CacheKey("films:search", query,
		strconv.Itoa(pageSize), strconv.Itoa(pageNumber))
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	films, err := s.reader.SearchFilms(query, pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, films)
	return films, nil
}
