package model

import "time"

// Comment is a reply under a review. No uniqueness constraint: an author
// may comment on the same review any number of times. Deleting the review
// cascades here, so deleting a title removes reviews and comments together.
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ReviewID uint      `json:"-" gorm:"not null;index"`
	AuthorID uint      `json:"-" gorm:"not null"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`

	// Relations
	Review Review `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Author User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
