package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"conselhoreal/internal/auth"
	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/handler"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/repository"
)

var errTokenRevoked = errors.New("token revoked")

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Events   *handler.EventHandler
	Notices  *handler.NoticeHandler
	Gallery  *handler.GalleryHandler
	Diary    *handler.DiaryHandler
	Recados  *handler.MessageHandler
	Entities *handler.EntityHandler
}

// Deps are the non-handler collaborators of the router.
type Deps struct {
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
	Mode       repository.Mode
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "mode": string(deps.Mode)})
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/events", h.Events.ListEvents)
	api.GET("/announcements", h.Notices.ListAnnouncements)
	api.GET("/prayer-requests", h.Notices.ListPrayerRequests)
	api.POST("/prayer-requests", h.Notices.SubmitPrayerRequest)
	api.GET("/gallery", h.Gallery.ListGallery)
	api.GET("/gallery/uploads/:key", h.Gallery.ServeUpload)
	api.GET("/spiritual-entities", h.Entities.ListSpiritualEntities)
	api.GET("/lore", h.Entities.ListLore)

	// Member routes (require a session)
	secured := api.Group("", JWTMiddleware(deps.JWT, deps.TokenStore))
	secured.GET("/me", h.Users.Me)
	secured.POST("/events/:id/participate", h.Events.Participate)
	secured.GET("/diary", h.Diary.ListDiary)
	secured.POST("/diary", h.Diary.CreateDiaryEntry)
	secured.PUT("/diary/:id", h.Diary.UpdateDiaryEntry)
	secured.DELETE("/diary/:id", h.Diary.DeleteDiaryEntry)
	secured.GET("/recados", h.Recados.ListOwnRecados)
	secured.PUT("/recados/:id/read", h.Recados.SetOwnRecadoRead)
	secured.POST("/recados/read-all", h.Recados.MarkAllRead)
	secured.GET("/member-entities", h.Entities.ListOwnMemberEntities)

	// Admin routes
	admin := secured.Group("/admin", RequireAdmin)
	admin.GET("/users", h.Users.ListUsers)
	admin.POST("/users", h.Users.CreateUser)
	admin.PUT("/users/:id", h.Users.UpdateUser)
	admin.DELETE("/users/:id", h.Users.DeleteUser)
	admin.GET("/members", h.Users.ListMembers)
	admin.GET("/members/export", h.Users.ExportMembers)

	admin.POST("/events", h.Events.CreateEvent)
	admin.PUT("/events/:id", h.Events.UpdateEvent)
	admin.DELETE("/events/:id", h.Events.DeleteEvent)

	admin.POST("/announcements", h.Notices.CreateAnnouncement)

	admin.POST("/gallery", h.Gallery.CreateImage)
	admin.POST("/gallery/upload", h.Gallery.UploadImage, middleware.BodyLimit("3M"))

	admin.GET("/recados", h.Recados.ListRecados)
	admin.POST("/recados", h.Recados.SendRecado)
	admin.PUT("/recados/:id/read", h.Recados.SetRecadoRead)

	admin.GET("/member-entities", h.Entities.ListMemberEntities)
	admin.POST("/member-entities", h.Entities.CreateMemberEntity)
	admin.PUT("/member-entities/:id", h.Entities.UpdateMemberEntity)
	admin.DELETE("/member-entities/:id", h.Entities.DeleteMemberEntity)

	admin.POST("/spiritual-entities", h.Entities.CreateSpiritualEntity)
	admin.PUT("/spiritual-entities/:id", h.Entities.UpdateSpiritualEntity)
	admin.DELETE("/spiritual-entities/:id", h.Entities.DeleteSpiritualEntity)
	admin.POST("/spiritual-entities/:id/history", h.Entities.AppendHistory)
}

// JWTMiddleware accepts bearer access tokens signed by jwtService that were not
// revoked, and stores their claims under handler.ClaimsContextKey.
func JWTMiddleware(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			if tokenStore != nil {
				revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if err != nil {
					return nil, err
				}
				if revoked {
					return nil, errTokenRevoked
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// RequireAdmin rejects callers whose session role is not ADM.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(handler.ClaimsContextKey).(*auth.Claims)
		if !ok || !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrForbidden.Error(),
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
