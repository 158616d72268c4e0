// Package feed implements status posts: paginated listing, creation
// with an image upload, and owner-gated edits and deletion.
package feed

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/storage"
)

// DefaultPerPage matches the page size the feed has always used.
const DefaultPerPage = 2

// Page is one page of the feed plus the information a client needs to
// render pagination controls.
type Page struct {
	Posts      []*Post `json:"posts"`
	TotalItems int     `json:"totalItems"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
}

// Service wires the post repository, the image store, and the
// ownership gate into the feed operations.
type Service struct {
	posts   Posts
	images  storage.ImageStore
	perPage int
	logger  auth.Logger
}

// NewService builds a feed service. perPage values below 1 fall back
// to the default page size.
func NewService(posts Posts, images storage.ImageStore, perPage int) *Service {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Service{
		posts:   posts,
		images:  images,
		perPage: perPage,
	}
}

func (s *Service) WithLogger(logger auth.Logger) *Service {
	s.logger = logger
	return s
}

// List returns the requested feed page, newest posts first. Page
// numbers below 1 are treated as the first page; a page past the end
// is valid and empty.
func (s *Service) List(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.List(ctx, page, s.perPage)
	if err != nil {
		return nil, err
	}

	return &Page{
		Posts:      posts,
		TotalItems: total,
		Page:       page,
		PerPage:    s.perPage,
	}, nil
}

// Get loads a single post by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create validates the input, stores the image, and inserts the post
// with the requester recorded as creator.
func (s *Service) Create(ctx context.Context, requesterID string, input PostInput, image *multipart.FileHeader) (*Post, error) {
	creator, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, ErrInvalidRequester
	}

	if err := input.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	if image == nil {
		return nil, ErrImageRequired
	}

	imagePath, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		ImagePath: imagePath,
		CreatorID: creator,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		// the row never landed, drop the orphaned image
		if cleanupErr := s.images.Remove(imagePath); cleanupErr != nil {
			s.log("failed to remove orphaned image", "path", imagePath, "error", cleanupErr)
		}
		return nil, err
	}

	return created, nil
}

// Update applies new content to a post after the ownership check. A
// new image replaces the stored one; without one the existing image is
// kept. The creator never changes.
func (s *Service) Update(ctx context.Context, requesterID string, id uuid.UUID, input PostInput, image *multipart.FileHeader) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.AuthorizeOwner(post, requesterID); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	previousImage := post.ImagePath
	if image != nil {
		imagePath, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = imagePath
	}

	post.Title = input.Title
	post.Content = input.Content

	now := time.Now()
	post.UpdatedAt = &now

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		if image != nil {
			if cleanupErr := s.images.Remove(post.ImagePath); cleanupErr != nil {
				s.log("failed to remove replacement image", "path", post.ImagePath, "error", cleanupErr)
			}
		}
		return nil, err
	}

	if image != nil && previousImage != "" && previousImage != post.ImagePath {
		if err := s.images.Remove(previousImage); err != nil {
			s.log("failed to remove replaced image", "path", previousImage, "error", err)
		}
	}

	return updated, nil
}

// Delete removes a post and its image after the ownership check.
func (s *Service) Delete(ctx context.Context, requesterID string, id uuid.UUID) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.AuthorizeOwner(post, requesterID); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	if post.ImagePath != "" {
		if err := s.images.Remove(post.ImagePath); err != nil {
			s.log("failed to remove image for deleted post", "path", post.ImagePath, "error", err)
		}
	}

	return nil
}

// ParsePostID normalizes a path parameter into a post id. Garbled ids
// map to not-found rather than a server fault.
func ParsePostID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, ErrPostNotFound.Category, ErrPostNotFound.Message).
			WithTextCode(ErrPostNotFound.TextCode)
	}
	return id, nil
}

func (s *Service) log(message string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(message, args...)
	}
}
