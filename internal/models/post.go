// Package models contains data structures for the application's domain models.
package models

import "time"

// Like records a user's endorsement of a post.
// At most one like per (post, user) pair.
type Like struct {
	User uint `json:"user"`
}

// Comment is user-authored text attached to a post. Its id is assigned at
// creation and is independent of post ids. Name and avatar are a snapshot of
// the author's display fields at comment time.
type Comment struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	User   uint      `json:"user"`
	Date   time.Time `json:"date"`
}

// Post is the top-level content unit. Likes and comments are embedded
// sub-collections stored as JSON columns on the post row: they have no
// lifecycle of their own and are only ever mutated through a post
// read-modify-write cycle. Both sequences are ordered most-recent-first.
type Post struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`
	// Name and Avatar snapshot the author's display fields at creation
	// time; they are not kept in sync with later profile edits.
	Name     string    `gorm:"not null" json:"name"`
	Avatar   string    `json:"avatar"`
	UserID   uint      `gorm:"not null;index" json:"user"`
	Likes    []Like    `gorm:"serializer:json" json:"likes"`
	Comments []Comment `gorm:"serializer:json" json:"comments"`
	// Version guards the read-modify-write cycle: every save is a
	// compare-and-swap on (id, version).
	Version   uint      `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"date"`
}
