package model

// 写入搜索引擎的文档模型。文档以 id 作为 _id 幂等写入，
// 重复投递同一文档只是覆盖，不会产生副本。

// Document 可写入搜索引擎的文档
type Document interface {
	DocID() string
}

// PersonRef 文档内嵌的影人引用
type PersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenreRef 文档内嵌的类型引用
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilmDocument movies 索引的文档
type FilmDocument struct {
	ID             string      `json:"id"`
	IMDbRating     *float64    `json:"imdb_rating"`
	Genres         []GenreRef  `json:"genres"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	DirectorsNames string      `json:"directors_names"`
	ActorsNames    string      `json:"actors_names"`
	WritersNames   string      `json:"writers_names"`
	Directors      []PersonRef `json:"directors"`
	Actors         []PersonRef `json:"actors"`
	Writers        []PersonRef `json:"writers"`
}

func (d FilmDocument) DocID() string { return d.ID }

// GenreDocument genres 索引的文档
type GenreDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d GenreDocument) DocID() string { return d.ID }

// PersonDocument persons 索引的文档
type PersonDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d PersonDocument) DocID() string { return d.ID }
