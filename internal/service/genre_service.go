package service

import (
	"strconv"
	"time"

	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/utils"
)

// GenreService 类型查询服务
type GenreService struct {
	reader    *search.Reader
	listCache *utils.SearchCache[[]model.GenreDocument]
}

// NewGenreService 创建类型服务
func NewGenreService(reader *search.Reader) *GenreService {
	return &GenreService{
		reader:    reader,
		listCache: utils.NewSearchCache[[]model.GenreDocument](100, time.Minute),
	}
}

// GetByID 按 id 查类型，未找到返回 nil
func (s *GenreService) GetByID(id string) (*model.GenreDocument, error) {
	cacheKey := "genre:" + id
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.(*model.GenreDocument), nil
	}

	genre, err := s.reader.GetGenre(id)
	if err != nil {
		return nil, err
	}
	if genre != nil {
		utils.CacheSet(cacheKey, genre, detailCacheTTL)
	}
	return genre, nil
}

// List 按名称排序列出类型
func (s *GenreService) List(pageSize, pageNumber int) ([]model.GenreDocument, error) {
	key := utils.CacheKey("genres:list",
		strconv.Itoa(pageSize), strconv.Itoa(pageNumber))
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	genres, err := s.reader.ListGenres(pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, genres)
	return genres, nil
}
