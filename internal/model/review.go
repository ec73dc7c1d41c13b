package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Text  string `gorm:"type:text;not null" json:"text"`
	Score int    `gorm:"not null;check:score >= 1 AND score <= 10" json:"score"`

	// One review per (author, title); the unique index closes the race left
	// open by the application-level existence check.
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_title" json:"-"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TitleID  int64     `gorm:"not null;uniqueIndex:idx_reviews_author_title" json:"-"`
	Title    *Title    `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	PubDate time.Time `gorm:"autoCreateTime" json:"pub_date"`
}
