package model

// Category is the single-valued classification of a title (book, film, ...).
// The slug is the public identifier used in URLs.
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;index"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}
