package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/socialbase/socialbase/auth"
)

// Post is a feed entry. CreatorID is set once at creation and never
// reassigned; every mutation is gated on it.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:post"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title     string     `bun:"title,notnull" json:"title"`
	Content   string     `bun:"content,notnull" json:"content"`
	ImagePath string     `bun:"image_path,notnull" json:"image_path"`
	CreatorID uuid.UUID  `bun:"creator_id,notnull,type:uuid" json:"creator_id"`
	Creator   *auth.User `bun:"rel:belongs-to,join:creator_id=id" json:"creator,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID reports the creator for ownership checks.
func (p *Post) OwnerID() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.CreatorID
}
