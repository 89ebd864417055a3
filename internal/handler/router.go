package handler

import (
	"net/http"
	"slices"
	"time"

	"voice-todo/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	AI      ActionDeterminer
	Speech  Transcriber
	Auth    Authenticator  // nil leaves /api open and skips /api/login
	History ActionRecorder // nil disables /api/actions

	JWTSecret   []byte
	TokenTTL    time.Duration
	UploadLimit int64
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// browsers refuse credentialed responses for a wildcard origin
	credentials := !slices.Contains(origins, "*")

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"X-New-Token", middleware.RequestIDHeader},
		AllowCredentials: credentials,
	}))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	actionH := NewActionHandler(d.AI, d.History)
	speechH := NewSpeechHandler(d.Speech, d.UploadLimit)

	api := r.Group("/api")
	if d.Auth != nil {
		authH := NewAuthHandler(d.Auth, d.JWTSecret, d.TokenTTL)
		r.POST("/api/login", authH.Login)
		api.Use(middleware.JWTAuth(d.JWTSecret, d.TokenTTL))
	}
	api.POST("/action", actionH.Determine)
	api.POST("/transcribe", speechH.Transcribe)
	if d.History != nil {
		api.GET("/actions", actionH.History)
	}
	return r
}
