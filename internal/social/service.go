package social

import (
	"context"
	"errors"

	"social-service/internal/events"
	"social-service/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	repo   *Repository
	events *events.Publisher
}

func NewService(repo *Repository, publisher *events.Publisher) *Service {
	return &Service{repo: repo, events: publisher}
}

func (s *Service) CreatePost(ctx context.Context, userID uint, identity string, req models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.events.Publish(events.EventPostCreated, identity, post.ID)
	return post, nil
}

func (s *Service) Feed(ctx context.Context) ([]models.Post, error) {
	return s.repo.ListPosts(ctx, 50)
}

// DeletePost removes a post; only its author may do so.
func (s *Service) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.repo.FindPost(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	return s.repo.DeletePost(ctx, post)
}

func (s *Service) AddComment(ctx context.Context, userID uint, identity string, req models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.repo.FindPost(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		PostID:  req.PostID,
		Content: req.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.events.Publish(events.EventCommentCreated, identity, comment.ID)
	return comment, nil
}

// DeleteComment removes a comment. The commenter may delete their own
// comment; the post's author may delete any comment on their post.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.repo.FindComment(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		post, err := s.repo.FindPost(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return ErrForbidden
		}
	}
	return s.repo.DeleteComment(ctx, comment)
}

// ToggleLike likes the target if the user has not liked it yet, and removes
// the like otherwise. Returns whether the target is liked afterwards.
func (s *Service) ToggleLike(ctx context.Context, userID uint, req models.ToggleLikeRequest) (bool, error) {
	switch req.TargetType {
	case likeablePost:
		if _, err := s.repo.FindPost(ctx, req.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrNotFound
			}
			return false, err
		}
	case likeableComment:
		if _, err := s.repo.FindComment(ctx, req.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrNotFound
			}
			return false, err
		}
	default:
		return false, ErrNotFound
	}

	existing, err := s.repo.FindLike(ctx, userID, req.TargetID, req.TargetType)
	if err == nil {
		return false, s.repo.DeleteLike(ctx, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	like := &models.Like{
		UserID:       userID,
		LikeableID:   req.TargetID,
		LikeableType: req.TargetType,
	}
	return true, s.repo.CreateLike(ctx, like)
}

func (s *Service) AddFriend(ctx context.Context, userID, friendID uint) error {
	if userID == friendID {
		return ErrForbidden
	}
	return s.repo.CreateFriend(ctx, &models.Friend{
		UserID:   userID,
		FriendID: friendID,
		Status:   "accepted",
	})
}

func (s *Service) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	return s.repo.DeleteFriend(ctx, userID, friendID)
}

func (s *Service) Friends(ctx context.Context, userID uint) ([]models.FriendResponse, error) {
	friends, err := s.repo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.FriendResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, models.FriendResponse{
			ID:       f.FriendID,
			Username: f.Friend.Username,
			Email:    f.Friend.Email,
			Status:   f.Status,
		})
	}
	return out, nil
}
