package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/feed"
	"github.com/socialbase/socialbase/middleware/jwtware"
)

// Locals keys shared between the gate and the handlers.
const (
	ContextKeyClaims    = "user"
	ContextKeyAuthState = "is_authenticated"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	TokenService auth.TokenService
	Auther       auth.Authenticator
	Register     *auth.RegisterUserHandler
	Users        auth.Users
	Feed         *feed.Service
	UploadsDir   string
	Logger       auth.Logger
}

// tokenValidatorAdapter narrows the token service to the gate's
// validator interface.
type tokenValidatorAdapter struct {
	service auth.TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RegisterRoutes mounts the full route table on the app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if deps.UploadsDir != "" {
		app.Static("/images", deps.UploadsDir)
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	validator := tokenValidatorAdapter{service: deps.TokenService}

	hardGate := jwtware.New(jwtware.Config{
		TokenValidator:  validator,
		ContextKey:      ContextKeyClaims,
		StateKey:        ContextKeyAuthState,
		ErrorHandler:    renderGateError,
		ContextEnricher: enrichContext,
	})

	softGate := jwtware.New(jwtware.Config{
		TokenValidator:  validator,
		ContextKey:      ContextKeyClaims,
		StateKey:        ContextKeyAuthState,
		Optional:        true,
		ContextEnricher: enrichContext,
	})

	authController := NewAuthController(deps.Auther, deps.Register, deps.Users).
		WithLogger(deps.Logger)
	feedController := NewFeedController(deps.Feed)
	queryController := NewQueryController(deps.Register, deps.Users, deps.Feed)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", authController.Signup)
	authGroup.Post("/login", authController.Login)
	authGroup.Get("/status", hardGate, authController.StatusShow)
	authGroup.Put("/status", hardGate, authController.StatusUpdate)

	feedGroup := app.Group("/feed", hardGate)
	feedGroup.Get("/posts", feedController.List)
	feedGroup.Post("/post", feedController.Create)
	feedGroup.Get("/post/:postID", feedController.Show)
	feedGroup.Put("/post/:postID", feedController.Update)
	feedGroup.Delete("/post/:postID", feedController.Delete)

	app.Post("/query", softGate, queryController.Handle)
}

// renderGateError funnels every gate failure through the error
// boundary as unauthenticated, whatever actually tripped.
func renderGateError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) || richErr.Category != errors.CategoryAuth {
		richErr = errors.Wrap(err, errors.CategoryAuth, "not authenticated").
			WithCode(errors.CodeUnauthorized)
	}
	return RenderError(c, richErr)
}

// enrichContext mirrors verified claims into the request context so
// code below the handlers can read them without fiber types.
func enrichContext(ctx context.Context, claims jwtware.AuthClaims) context.Context {
	if jwtClaims, ok := claims.(*auth.JWTClaims); ok {
		return auth.WithClaimsContext(ctx, jwtClaims)
	}
	return ctx
}
