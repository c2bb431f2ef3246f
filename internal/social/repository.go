package social

import (
	"context"

	"social-service/internal/models"

	"gorm.io/gorm"
)

const (
	likeablePost    = "posts"
	likeableComment = "comments"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *Repository) FindPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *Repository) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments").
		Preload("Comments.User").
		Preload("Likes").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// DeletePost removes a post with its comments and all likes hanging off the
// post or its comments.
func (r *Repository) DeletePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("likeable_type = ? AND likeable_id IN ?", likeableComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("likeable_type = ? AND likeable_id = ?", likeablePost, post.ID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *Repository) FindComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *Repository) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("likeable_type = ? AND likeable_id = ?", likeableComment, comment.ID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}

func (r *Repository) FindLike(ctx context.Context, userID, likeableID uint, likeableType string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND likeable_id = ? AND likeable_type = ?", userID, likeableID, likeableType).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *Repository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *Repository) DeleteLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Delete(like).Error
}

func (r *Repository) CreateFriend(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *Repository) DeleteFriend(ctx context.Context, userID, friendID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friend{}).Error
}

func (r *Repository) ListFriends(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Preload("Friend").
		Where("user_id = ?", userID).
		Find(&friends).Error
	return friends, err
}
