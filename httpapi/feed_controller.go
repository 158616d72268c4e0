package httpapi

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/socialbase/socialbase/feed"
	"github.com/socialbase/socialbase/middleware/jwtware"
)

// FeedController serves the paginated feed and post CRUD.
type FeedController struct {
	service *feed.Service
}

func NewFeedController(service *feed.Service) *FeedController {
	return &FeedController{service: service}
}

// List returns one page of the feed, newest first.
func (f *FeedController) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	result, err := f.service.List(c.UserContext(), page)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(result)
}

// Show returns a single post.
func (f *FeedController) Show(c *fiber.Ctx) error {
	id, err := feed.ParsePostID(c.Params("postID"))
	if err != nil {
		return RenderError(c, err)
	}

	post, err := f.service.Get(c.UserContext(), id)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// Create accepts a multipart form with title, content, and an image
// file, and records the caller as creator.
func (f *FeedController) Create(c *fiber.Ctx) error {
	requesterID, err := requesterID(c)
	if err != nil {
		return RenderError(c, err)
	}

	input := feed.PostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}

	post, err := f.service.Create(c.UserContext(), requesterID, input, formImage(c))
	if err != nil {
		return RenderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully!",
		"post":    post,
	})
}

// Update rewrites a post's content. The image is optional; without one
// the stored image stays.
func (f *FeedController) Update(c *fiber.Ctx) error {
	requesterID, err := requesterID(c)
	if err != nil {
		return RenderError(c, err)
	}

	id, err := feed.ParsePostID(c.Params("postID"))
	if err != nil {
		return RenderError(c, err)
	}

	input := feed.PostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}

	post, err := f.service.Update(c.UserContext(), requesterID, id, input, formImage(c))
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated!",
		"post":    post,
	})
}

// Delete removes a post.
func (f *FeedController) Delete(c *fiber.Ctx) error {
	requesterID, err := requesterID(c)
	if err != nil {
		return RenderError(c, err)
	}

	id, err := feed.ParsePostID(c.Params("postID"))
	if err != nil {
		return RenderError(c, err)
	}

	if err := f.service.Delete(c.UserContext(), requesterID, id); err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Deleted post.",
	})
}

// formImage returns the uploaded image header, or nil when the form
// carries none.
func formImage(c *fiber.Ctx) *multipart.FileHeader {
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}

// requesterID pulls the authenticated user id out of the gate's claims.
func requesterID(c *fiber.Ctx) (string, error) {
	claims, ok := jwtware.ClaimsFromContext(c, ContextKeyClaims)
	if !ok {
		return "", errors.New("request reached a gated handler without claims", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}
	return claims.UserID(), nil
}
