package main

import (
	"errors"
	"os"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog/config"
	"blog/db"
	"blog/forms"
	"blog/handlers"
	"blog/models"
	"blog/repos"
	"blog/storage"
	"blog/utils"
)

const sessionCookieName = "token"

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Open(cfg.Database)
	if err != nil {
		logger.Fatal("cannot open database", zap.Error(err))
	}
	if err = models.Migrate(database); err != nil {
		logger.Fatal("cannot run migrations", zap.Error(err))
	}

	media, err := storage.FromConfig(cfg.Media)
	if err != nil {
		logger.Fatal("cannot initialise media storage", zap.Error(err))
	}

	groupRepo := repos.NewGroupRepository(database)
	postRepo := repos.NewPostRepository(database, cfg.Posts.PageSize)
	commentRepo := repos.NewCommentRepository(database)
	userRepo := repos.NewUserRepository(database)

	seedGroups(cfg.Groups, groupRepo, logger)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))
	_ = router.SetTrustedProxies([]string{})
	router.LoadHTMLGlob("templates/*.tmpl")

	sessionKey := cfg.Session.Key
	if sessionKey == "" {
		sessionKey = utils.RandSalt(40)
		logger.Warn("session.key is not configured, sessions will not survive a restart")
	}
	cookieStore := gormsessions.NewStore(database, true, []byte(sessionKey))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: cfg.Session.MaxAge})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))

	h := &handlers.Handlers{
		Log:       logger,
		Media:     media,
		Posts:     postRepo,
		Groups:    groupRepo,
		Comments:  commentRepo,
		Users:     userRepo,
		ThumbSize: cfg.Media.ThumbSize,
	}
	handlers.SetupRoutes(router, h)

	logger.Info("starting server", zap.String("bind", cfg.Server.BindAddress))
	if cfg.Server.TLSDomains != "" {
		err = autotls.Run(router, strings.Split(cfg.Server.TLSDomains, ",")...)
	} else {
		err = router.Run(cfg.Server.BindAddress)
	}
	logger.Fatal("server stopped", zap.Error(err))
}

// seedGroups provisions the groups listed in the config file. Groups are
// created by the operator, existing slugs are left untouched.
func seedGroups(seeds []config.GroupSeed, groups repos.GroupRepository, logger *zap.Logger) {
	for _, seed := range seeds {
		form := forms.GroupForm{Title: seed.Title, Slug: seed.Slug, Description: seed.Description}
		if errs := form.Validate(); errs.Any() {
			logger.Warn("skipping invalid group seed",
				zap.String("slug", seed.Slug), zap.Any("errors", errs))
			continue
		}
		err := groups.Create(&models.Group{
			Title:       seed.Title,
			Slug:        seed.Slug,
			Description: seed.Description,
		})
		if errors.Is(err, repos.ErrSlugTaken) {
			continue
		}
		if err != nil {
			logger.Error("cannot seed group", zap.String("slug", seed.Slug), zap.Error(err))
		}
	}
}
