package http

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"tutorhub/internal/service"
	"tutorhub/internal/storage"
)

// Deps are the collaborators the HTTP layer talks to.
type Deps struct {
	Auth     service.AuthService
	Sessions *service.SessionManager
	Subjects service.SubjectService
	Posts    service.TutorPostService
	Messages service.MessageService
	Drafts   service.DraftService
	Storage  storage.Service
	Logger   logrus.FieldLogger

	SecureCookies  bool
	MaxUploadBytes int64
	// LocalUploads, when set, is served read-only under its public prefix.
	LocalUploads *storage.LocalStore
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	sessions *service.SessionManager
	subjects service.SubjectService
	posts    service.TutorPostService
	messages service.MessageService
	drafts   service.DraftService
	storage  storage.Service
	logger   logrus.FieldLogger

	secureCookies  bool
	maxUploadBytes int64
	localUploads   *storage.LocalStore
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		auth:           d.Auth,
		sessions:       d.Sessions,
		subjects:       d.Subjects,
		posts:          d.Posts,
		messages:       d.Messages,
		drafts:         d.Drafts,
		storage:        d.Storage,
		logger:         d.Logger,
		secureCookies:  d.SecureCookies,
		maxUploadBytes: d.MaxUploadBytes,
		localUploads:   d.LocalUploads,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	if h.localUploads != nil {
		router.Static(h.localUploads.PublicPrefix(), h.localUploads.Dir())
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/auth/login", h.login)
		api.POST("/auth/register", h.register)
		api.GET("/auth/session", h.session)
		api.POST("/auth/logout", h.logout)

		api.GET("/subjects", h.listSubjects)
		api.GET("/subjects/active", h.listActiveSubjects)

		api.GET("/tutors", h.searchPosts)
		api.GET("/tutors/price-range", h.priceRange)
		api.GET("/tutors/posts/:postId", h.getPost)

		api.POST("/drafts/:kind", h.saveDraft)
		api.GET("/drafts/:kind", h.takeDraft)
	}

	authed := api.Group("", h.requireAuth)
	{
		authed.POST("/tutors/create", h.createPost)
		authed.GET("/tutors/my-posts", h.myPosts)
		authed.PATCH("/tutors/posts/:postId", h.updatePost)
		authed.DELETE("/tutors/posts/:postId", h.deletePost)

		authed.GET("/messages", h.listMessages)
		authed.POST("/messages", h.createMessage)

		authed.POST("/upload", h.upload)
	}
}

// NewRouter builds the gin engine with logging, recovery and CORS around h.
func NewRouter(h *Handler, logger logrus.FieldLogger, allowedOrigins []string) http.Handler {
	useJSONFieldNames()

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	h.RegisterRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}
