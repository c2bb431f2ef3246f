package models

import (
	"gorm.io/gorm"
)

// Post represents a user post on the feed
type Post struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Content string `gorm:"not null;type:text" json:"content"`

	User     User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID" json:"comments"`
	Likes    []Like    `gorm:"polymorphic:Likeable" json:"likes"`
}

// Comment represents a comment written on a post
type Comment struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"userId"`
	PostID  uint   `gorm:"not null;index" json:"postId"`
	Content string `gorm:"not null;type:text" json:"content"`

	User  User   `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Likes []Like `gorm:"polymorphic:Likeable" json:"likes"`
}

// Like represents a like on either a post or a comment
type Like struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index:idx_likes_user_target,unique" json:"userId"`
	LikeableID   uint   `gorm:"not null;index:idx_likes_user_target,unique" json:"likeableId"`
	LikeableType string `gorm:"not null;index:idx_likes_user_target,unique;type:varchar(32)" json:"likeableType"`
}

/** -------------------- DTOs -------------------- */
type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateCommentRequest struct {
	PostID  uint   `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ToggleLikeRequest struct {
	TargetID   uint   `json:"targetId" binding:"required"`
	TargetType string `json:"targetType" binding:"required,oneof=posts comments"`
}
