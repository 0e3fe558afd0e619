package model

// Genre is a multi-valued classification of a title, attached through the
// genre_titles join table.
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;index"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}
