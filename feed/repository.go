package feed

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the post repository surface.
type Posts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context, page, perPage int) ([]*Post, int, error)
	Create(ctx context.Context, post *Post) (*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostRepository implements Posts using Bun.
type PostRepository struct {
	db *bun.DB
}

// NewPostRepository creates a new repository.
func NewPostRepository(db *bun.DB) *PostRepository {
	return &PostRepository{db: db}
}

// GetByID loads a post with its creator.
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post := &Post{}
	err := r.db.NewSelect().
		Model(post).
		Relation("Creator").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "post lookup failed")
	}
	return post, nil
}

// List returns one page of posts, newest first, plus the total count
// across all pages.
func (r *PostRepository) List(ctx context.Context, page, perPage int) ([]*Post, int, error) {
	if page < 1 {
		page = 1
	}

	var posts []*Post
	total, err := r.db.NewSelect().
		Model(&posts).
		Relation("Creator").
		Order("post.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "post listing failed")
	}

	if posts == nil {
		posts = []*Post{}
	}

	return posts, total, nil
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(post).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create post")
	}

	return post, nil
}

// Update rewrites the mutable columns of a post. The creator column is
// deliberately excluded.
func (r *PostRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	res, err := r.db.NewUpdate().
		Model(post).
		Column("title", "content", "image_path", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update post")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrPostNotFound
	}

	return post, nil
}

// Delete removes a post by id.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete post")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

var _ Posts = (*PostRepository)(nil)
