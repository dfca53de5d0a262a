package model

import (
	"time"

	"github.com/google/uuid"
)

// 内容库 content schema 的只读模型，字段与源库保持一致。

// 参与角色
const (
	RoleDirector = "director"
	RoleActor    = "actor"
	RoleWriter   = "writer"
)

// FilmWork 影片
type FilmWork struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"size:255" json:"title"`
	Description  *string    `json:"description"`
	CreationDate *time.Time `json:"creation_date"`
	Rating       *float64   `json:"rating"`
	Type         string     `gorm:"size:50" json:"type"`
	Created      time.Time  `json:"created"`
	Modified     time.Time  `gorm:"index" json:"modified"`

	// 关联
	Genres  []GenreFilmWork  `gorm:"foreignKey:FilmWorkID" json:"genres"`
	Persons []PersonFilmWork `gorm:"foreignKey:FilmWorkID" json:"persons"`
}

// TableName 指定带 schema 的表名
func (FilmWork) TableName() string {
	return "content.film_work"
}

// Genre 类型/流派
type Genre struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Description *string   `json:"description"`
	Created     time.Time `json:"created"`
	Modified    time.Time `gorm:"index" json:"modified"`
}

func (Genre) TableName() string {
	return "content.genre"
}

// Person 影人
type Person struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:255" json:"full_name"`
	Created  time.Time `json:"created"`
	Modified time.Time `gorm:"index" json:"modified"`
}

func (Person) TableName() string {
	return "content.person"
}

// GenreFilmWork 影片-类型关联
type GenreFilmWork struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FilmWorkID uuid.UUID `gorm:"type:uuid" json:"film_work_id"`
	GenreID    uuid.UUID `gorm:"type:uuid" json:"genre_id"`
	Created    time.Time `json:"created"`

	Genre Genre `gorm:"foreignKey:GenreID" json:"genre"`
}

func (GenreFilmWork) TableName() string {
	return "content.genre_film_work"
}

// PersonFilmWork 影片-影人关联（带角色）
type PersonFilmWork struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FilmWorkID uuid.UUID `gorm:"type:uuid" json:"film_work_id"`
	PersonID   uuid.UUID `gorm:"type:uuid" json:"person_id"`
	Role       string    `gorm:"size:50" json:"role"`
	Created    time.Time `json:"created"`

	Person Person `gorm:"foreignKey:PersonID" json:"person"`
}

func (PersonFilmWork) TableName() string {
	return "content.person_film_work"
}
