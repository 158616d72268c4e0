package httpapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/middleware/jwtware"
)

// AuthController serves signup, login, and the status profile.
type AuthController struct {
	auther   auth.Authenticator
	register *auth.RegisterUserHandler
	users    auth.Users
	logger   auth.Logger
}

func NewAuthController(auther auth.Authenticator, register *auth.RegisterUserHandler, users auth.Users) *AuthController {
	return &AuthController{
		auther:   auther,
		register: register,
		users:    users,
	}
}

func (a *AuthController) WithLogger(logger auth.Logger) *AuthController {
	a.logger = logger
	return a
}

// Signup creates a new account. The response never carries the
// password in any form.
func (a *AuthController) Signup(c *fiber.Ctx) error {
	var message auth.RegisterUserMessage
	if err := c.BodyParser(&message); err != nil {
		return RenderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse signup payload"))
	}

	user, err := a.register.Execute(c.UserContext(), message)
	if err != nil {
		a.log("signup failed", "email", message.Email, "error", err)
		return RenderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created!",
		"userId":  user.ID.String(),
	})
}

// LoginPayload is the credential pair for login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// Login verifies credentials and responds with a bearer token and the
// account id.
func (a *AuthController) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return RenderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse login payload"))
	}

	if err := payload.Validate(); err != nil {
		// missing credentials can never match an account
		return RenderError(c, auth.ErrMismatchedHashAndPassword)
	}

	token, err := a.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.log("login failed", "email", payload.Email, "error", err)
		return RenderError(c, err)
	}

	claims, err := a.auther.ClaimsFromToken(token)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":  token,
		"userId": claims.UserID(),
	})
}

// StatusShow returns the caller's current status text.
func (a *AuthController) StatusShow(c *fiber.Ctx) error {
	user, err := a.requester(c)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": user.Status,
	})
}

// StatusUpdatePayload carries the new status text.
type StatusUpdatePayload struct {
	Status string `json:"status"`
}

func (p StatusUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Status, validation.Required, validation.Length(1, 500)),
	)
}

// StatusUpdate replaces the caller's status text. Only the account
// owner ever reaches this handler with their own id.
func (a *AuthController) StatusUpdate(c *fiber.Ctx) error {
	var payload StatusUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return RenderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse status payload"))
	}

	if err := payload.Validate(); err != nil {
		return RenderError(c, auth.AsValidationError(err))
	}

	user, err := a.requester(c)
	if err != nil {
		return RenderError(c, err)
	}

	updated, err := a.users.Update(c.UserContext(), user.WithStatus(payload.Status))
	if err != nil {
		a.log("status update failed", "user", user.ID.String(), "error", err)
		return RenderError(c, errors.Wrap(err, errors.CategoryInternal, "failed to update status"))
	}

	return c.JSON(fiber.Map{
		"message": "Status updated.",
		"status":  updated.Status,
	})
}

// requester resolves the live user record behind the gate's claims.
func (a *AuthController) requester(c *fiber.Ctx) (*auth.User, error) {
	claims, ok := jwtware.ClaimsFromContext(c, ContextKeyClaims)
	if !ok {
		return nil, auth.ErrTokenMalformed
	}

	user, err := a.users.GetByIdentifier(c.UserContext(), claims.UserID())
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (a *AuthController) log(message string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(message, args...)
	}
}
