package httpapi

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/feed"
	"github.com/socialbase/socialbase/middleware/jwtware"
)

// QueryController serves the mixed query endpoint. The route sits
// behind the soft gate: every request gets in, and each action decides
// whether it needs the caller authenticated.
type QueryController struct {
	register *auth.RegisterUserHandler
	users    auth.Users
	service  *feed.Service
}

func NewQueryController(register *auth.RegisterUserHandler, users auth.Users, service *feed.Service) *QueryController {
	return &QueryController{
		register: register,
		users:    users,
		service:  service,
	}
}

// QueryRequest is the envelope for a query action.
type QueryRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

var errNotAuthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

var errUnknownAction = errors.New("unknown query action", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// Handle dispatches one query action.
func (q *QueryController) Handle(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return RenderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse query payload"))
	}

	switch req.Action {
	case "createUser":
		return q.createUser(c, req.Data)
	case "posts":
		return q.posts(c, req.Data)
	case "post":
		return q.post(c, req.Data)
	case "status":
		return q.status(c)
	case "updateStatus":
		return q.updateStatus(c, req.Data)
	default:
		return RenderError(c, errUnknownAction)
	}
}

// createUser is the one action open to anonymous callers.
func (q *QueryController) createUser(c *fiber.Ctx, data json.RawMessage) error {
	var message auth.RegisterUserMessage
	if err := unmarshalData(data, &message); err != nil {
		return RenderError(c, err)
	}

	user, err := q.register.Execute(c.UserContext(), message)
	if err != nil {
		return RenderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created!",
		"userId":  user.ID.String(),
	})
}

// posts and post are public reads; only the write actions below need
// the soft gate to have authenticated the caller.
func (q *QueryController) posts(c *fiber.Ctx, data json.RawMessage) error {
	var params struct {
		Page int `json:"page"`
	}
	if len(data) > 0 {
		if err := unmarshalData(data, &params); err != nil {
			return RenderError(c, err)
		}
	}

	result, err := q.service.List(c.UserContext(), params.Page)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(result)
}

func (q *QueryController) post(c *fiber.Ctx, data json.RawMessage) error {
	var params struct {
		ID string `json:"id"`
	}
	if err := unmarshalData(data, &params); err != nil {
		return RenderError(c, err)
	}

	id, err := feed.ParsePostID(params.ID)
	if err != nil {
		return RenderError(c, err)
	}

	post, err := q.service.Get(c.UserContext(), id)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

func (q *QueryController) status(c *fiber.Ctx) error {
	user, err := q.requester(c)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{"status": user.Status})
}

func (q *QueryController) updateStatus(c *fiber.Ctx, data json.RawMessage) error {
	var payload StatusUpdatePayload
	if err := unmarshalData(data, &payload); err != nil {
		return RenderError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return RenderError(c, auth.AsValidationError(err))
	}

	user, err := q.requester(c)
	if err != nil {
		return RenderError(c, err)
	}

	updated, err := q.users.Update(c.UserContext(), user.WithStatus(payload.Status))
	if err != nil {
		return RenderError(c, errors.Wrap(err, errors.CategoryInternal, "failed to update status"))
	}

	return c.JSON(fiber.Map{
		"message": "Status updated.",
		"status":  updated.Status,
	})
}

func (q *QueryController) requester(c *fiber.Ctx) (*auth.User, error) {
	if !jwtware.IsAuthenticated(c, ContextKeyAuthState) {
		return nil, errNotAuthenticated
	}

	claims, ok := jwtware.ClaimsFromContext(c, ContextKeyClaims)
	if !ok {
		return nil, errNotAuthenticated
	}

	return q.users.GetByIdentifier(c.UserContext(), claims.UserID())
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return errors.New("query action requires a data payload", errors.CategoryBadInput)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "could not decode action data")
	}
	return nil
}
