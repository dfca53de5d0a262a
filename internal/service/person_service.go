package service

import (
	"strconv"
	"time"

	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/utils"
)

// PersonService 影人查询服务
type PersonService struct {
	reader      *search.Reader
	searchCache *utils.SearchCache[[]model.PersonDocument]
	filmCache   *utils.SearchCache[[]model.FilmDocument]
}

// NewPersonService 创建影人服务
func NewPersonService(reader *search.Reader) *PersonService {
	return &PersonService{
		reader:      reader,
		searchCache: utils.NewSearchCache[[]model.PersonDocument](1000, time.Minute),
		filmCache:   utils.NewSearchCache[[]model.FilmDocument](1000, time.Minute),
	}
}

// GetByID 按 id 查影人，未找到返回 nil
func (s *PersonService) GetByID(id string) (*model.PersonDocument, error) {
	cacheKey := "person:" + id
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.(*model.PersonDocument), nil
	}

	person, err := s.reader.GetPerson(id)
	if err != nil {
		return nil, err
	}
	if person != nil {
		utils.CacheSet(cacheKey, person, detailCacheTTL)
	}
	return person, nil
}

// Search 按姓名全文搜索影人
func (s *PersonService) Search(query string, pageSize, pageNumber int) ([]model.PersonDocument, error) {
	key := utils.CacheKey("persons:search", query,
		strconv.Itoa(pageSize), strconv.Itoa(pageNumber))
	if cached, ok := s.searchCache.Get(key); ok {
		return cached, nil
	}

	persons, err := s.reader.SearchPersons(query, pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	s.searchCache.Set(key, persons)
	return persons, nil
}

// Films 查询影人参与过的影片
func (s *PersonService) Films(personID string, pageSize, pageNumber int) ([]model.FilmDocument, error) {
	key := utils.CacheKey("persons:films", personID,
		strconv.Itoa(pageSize), strconv.Itoa(pageNumber))
	if cached, ok := s.filmCache.Get(key); ok {
		return cached, nil
	}

	films, err := s.reader.FilmsByPerson(personID, pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	s.filmCache.Set(key, films)
	return films, nil
}
