package model

import "time"

const (
	// MinScore and MaxScore bound a review score, inclusive.
	MinScore = 1
	MaxScore = 10
)

// Review is a single user's verdict on a title. The composite unique index
// on (title_id, author_id) guarantees at most one review per pair even
// under concurrent creation; deleting the title cascades here.
type Review struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TitleID  uint      `json:"-" gorm:"not null;uniqueIndex:uniq_review_title_author;index"`
	AuthorID uint      `json:"-" gorm:"not null;uniqueIndex:uniq_review_title_author"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`

	// Relations
	Title  Title `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Author User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
