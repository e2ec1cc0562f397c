package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/config"
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/repository"

	"github.com/google/uuid"
)

const maxTextLen = 10000

// PostService owns posts and their like and comment lists.
type PostService struct {
	posts          repository.PostRepository
	users          repository.UserRepository
	commentRemoval string
	maxAttempts    int
	now            func() time.Time
}

// PostServiceOptions tunes a PostService.
type PostServiceOptions struct {
	// CommentRemovalMode is config.CommentRemovalByID (default) or
	// config.CommentRemovalLegacy.
	CommentRemovalMode string
	MaxAttempts        int
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, opts PostServiceOptions) *PostService {
	mode := opts.CommentRemovalMode
	if mode == "" {
		mode = config.CommentRemovalByID
	}
	return &PostService{
		posts:          posts,
		users:          users,
		commentRemoval: mode,
		maxAttempts:    opts.MaxAttempts,
		now:            time.Now,
	}
}

// TextInput is the body of a new post or comment.
type TextInput struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

func checkText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("Text is required")
	}
	if len(text) > maxTextLen {
		return "", models.NewValidationError("Text too long (max 10000 characters)")
	}
	return text, nil
}

// author loads the requester whose name and avatar are copied onto new
// posts and comments.
func (s *PostService) author(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, withNotFound(err, "User not found")
	}
	return user, nil
}

// Create stores a post authored by userID.
func (s *PostService) Create(ctx context.Context, userID uint, text string) (*models.Post, error) {
	text, err := checkText(text)
	if err != nil {
		return nil, err
	}
	user, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: userID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	err = mutate(ctx, kindPost, opAppend, 1, func(ctx context.Context) error {
		return s.posts.Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, withNotFound(err, "No post found")
	}
	return post, nil
}

// Delete removes a post. Only its author may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	return mutate(ctx, kindPost, opDelete, 1, func(ctx context.Context) error {
		post, err := s.Get(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return models.NewUnauthorizedError("User not authorized")
		}
		return withNotFound(s.posts.Delete(ctx, postID), "No post found")
	})
}

// editPost loads the post, lets edit change it and writes it back,
// retrying on stale writes. The returned post is the one written.
func (s *PostService) editPost(ctx context.Context, postID uint, kind, op string, edit func(*models.Post) error) (*models.Post, error) {
	var out *models.Post
	err := mutate(ctx, kind, op, s.maxAttempts, func(ctx context.Context) error {
		post, err := s.Get(ctx, postID)
		if err != nil {
			return err
		}
		if err := edit(post); err != nil {
			return err
		}
		if err := s.posts.Update(ctx, post); err != nil {
			return err
		}
		out = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Like records userID's like on the post and returns the likes.
func (s *PostService) Like(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	post, err := s.editPost(ctx, postID, kindLike, opAppend, func(p *models.Post) error {
		if p.LikedBy(userID) {
			return models.NewConflictError("Post already liked")
		}
		p.Likes = prepend(p.Likes, models.Like{ID: uuid.NewString(), UserID: userID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike withdraws userID's like and returns the likes.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	post, err := s.editPost(ctx, postID, kindLike, opRemove, func(p *models.Post) error {
		i := slices.IndexFunc(p.Likes, func(l models.Like) bool { return l.UserID == userID })
		if i < 0 {
			return models.NewConflictError("Post has not yet been liked")
		}
		p.Likes = removeAt(p.Likes, i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment prepends a comment by userID and returns the comments.
func (s *PostService) AddComment(ctx context.Context, userID, postID uint, text string) ([]models.Comment, error) {
	text, err := checkText(text)
	if err != nil {
		return nil, err
	}
	user, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: s.now().UTC(),
	}
	post, err := s.editPost(ctx, postID, kindComment, opAppend, func(p *models.Post) error {
		p.Comments = prepend(p.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes a comment on behalf of its author and returns the
// remaining comments. The comment named by commentID must exist and belong
// to userID. In legacy mode the requester's first comment is the one
// removed.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID uint, commentID string) ([]models.Comment, error) {
	post, err := s.editPost(ctx, postID, kindComment, opRemove, func(p *models.Post) error {
		i := slices.IndexFunc(p.Comments, func(c models.Comment) bool { return c.ID == commentID })
		if i < 0 {
			return models.NewNotFoundError("Comment does not exist")
		}
		if p.Comments[i].UserID != userID {
			return models.NewUnauthorizedError("User not authorized")
		}
		if s.commentRemoval == config.CommentRemovalLegacy {
			i = slices.IndexFunc(p.Comments, func(c models.Comment) bool { return c.UserID == userID })
		}
		p.Comments = removeAt(p.Comments, i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}
