// Package repository wires the bun-backed stores together and carries
// the embedded schema migrations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/feed"
)

// Manager exposes every repository the application uses plus
// transaction scoping.
type Manager interface {
	auth.RepositoryManager
	Posts() feed.Posts
	DB() *bun.DB
}

type mngr struct {
	db    *bun.DB
	users auth.Users
	posts feed.Posts
}

func NewRepositoryManager(db *bun.DB) Manager {
	return &mngr{
		db:    db,
		users: auth.NewUsersRepository(db),
		posts: feed.NewPostRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository db should be initialized")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() auth.Users {
	return m.users
}

func (m mngr) Posts() feed.Posts {
	return m.posts
}

func (m mngr) DB() *bun.DB {
	return m.db
}
