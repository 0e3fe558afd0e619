package model

import "time"

// Title represents a reviewable work.
// CategoryID is nullable: deleting a category detaches its titles
// (ON DELETE SET NULL) instead of removing them.
type Title struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;index"`
	Year        int       `json:"year" gorm:"not null;index"`
	Description *string   `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Relations
	Category *Category `json:"category" gorm:"constraint:OnDelete:SET NULL"`
	Genres   []Genre   `json:"genre" gorm:"many2many:genre_titles"`
}

// GenreTitle is the explicit join table between titles and genres.
// The composite primary key enforces pair uniqueness atomically at the
// storage layer; both sides cascade on deletion.
type GenreTitle struct {
	TitleID uint `json:"title_id" gorm:"primaryKey"`
	GenreID uint `json:"genre_id" gorm:"primaryKey"`

	// Relations
	Title Title `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Genre Genre `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName keeps the join table name stable for SetupJoinTable.
func (GenreTitle) TableName() string {
	return "genre_titles"
}
