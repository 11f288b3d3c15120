package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/video-platform/internal/platform/auth"
	"github.com/example/video-platform/internal/platform/config"
	"github.com/example/video-platform/internal/platform/db"
	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/internal/platform/httpserver"
	"github.com/example/video-platform/internal/platform/logging"
	"github.com/example/video-platform/internal/platform/natsconn"
	"github.com/example/video-platform/internal/platform/run"
	"github.com/example/video-platform/services/engagement/internal/accounts"
	"github.com/example/video-platform/services/engagement/internal/handlers"
	"github.com/example/video-platform/services/engagement/internal/reaction"
	"github.com/example/video-platform/services/engagement/internal/service"
	"github.com/example/video-platform/services/engagement/internal/store"
	"github.com/example/video-platform/services/engagement/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	users, videos, comments, pool := initStores(cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	js, closeNATS := initNATS(cfg, log)
	if closeNATS != nil {
		defer closeNATS()
	}

	svc := service.New(users, videos, comments, events.New(js, log), log)
	acc := accounts.New(users, []byte(cfg.JWTSecret))
	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	r := chi.NewRouter()
	routerCfg := httpserver.RouterConfig{}
	if pool != nil {
		routerCfg.ReadyFunc = func() error { return pool.Ping(context.Background()) }
	}
	httpserver.SetupRouter(r, routerCfg)

	r.Post("/v1/auth/register", handlers.Register(acc))
	r.Post("/v1/auth/login", handlers.Login(acc))

	// Public reads; fetching a video counts as a view.
	r.Get("/v1/videos/trending", handlers.Trending(svc))
	r.Get("/v1/videos/search", handlers.Search(svc))
	r.Get("/v1/videos/category/{category}", handlers.ByCategory(svc))
	r.Get("/v1/videos/{video_id}", handlers.GetVideo(svc))
	r.Get("/v1/videos/{video_id}/comments", handlers.GetThread(svc))
	r.Get("/v1/users/{user_id}/videos", handlers.ListUserVideos(svc))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))

		r.Post("/v1/videos", handlers.UploadVideo(svc))
		r.Put("/v1/videos/{video_id}", handlers.UpdateVideo(svc))
		r.Delete("/v1/videos/{video_id}", handlers.DeleteVideo(svc))

		r.Post("/v1/videos/{video_id}/like", handlers.ToggleVideoReaction(svc, reaction.Like))
		r.Post("/v1/videos/{video_id}/dislike", handlers.ToggleVideoReaction(svc, reaction.Dislike))

		r.Post("/v1/videos/{video_id}/comments", handlers.CreateComment(svc))
		r.Post("/v1/comments/{comment_id}/replies", handlers.CreateReply(svc))
		r.Put("/v1/comments/{comment_id}", handlers.UpdateComment(svc))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(svc))
		r.Post("/v1/comments/{comment_id}/like", handlers.ToggleCommentReaction(svc, reaction.Like))
		r.Post("/v1/comments/{comment_id}/dislike", handlers.ToggleCommentReaction(svc, reaction.Dislike))

		r.Post("/v1/channels/{channel_id}/subscribe", handlers.ToggleSubscription(svc))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if js != nil && pool != nil {
			if err := worker.StartArchiver(ctx, js, pool, log); err != nil {
				log.Error("event archiver start failed", zap.Error(err))
			}
		}
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the storage backend. Production requires Postgres;
// without a DSN the in-memory stores keep development and tests self-contained.
func initStores(cfg config.AppConfig, log *zap.Logger) (store.UserStore, store.VideoStore, store.CommentStore, *pgxpool.Pool) {
	if cfg.DatabaseURL == "" {
		if cfg.Production() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		users := store.NewInMemoryUserStore()
		videos := store.NewInMemoryVideoStore()
		comments := store.NewInMemoryCommentStore()
		videos.AttachComments(comments)
		return users, videos, comments, nil
	}

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}
	log.Info("postgres store selected")
	return store.NewPostgresUserStore(pool), store.NewPostgresVideoStore(pool), store.NewPostgresCommentStore(pool), pool
}

// initNATS connects to NATS and prepares the engagement stream. NATS is
// optional outside production; without it events are silently dropped.
func initNATS(cfg config.AppConfig, log *zap.Logger) (nats.JetStreamContext, func()) {
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		if cfg.Production() {
			log.Error("nats connect failed", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("nats unavailable, events disabled", zap.Error(err))
		return nil, nil
	}

	js, err := nc.JetStream()
	if err != nil {
		log.Error("jetstream init failed", zap.Error(err))
		nc.Close()
		return nil, nil
	}
	if err := events.EnsureStream(js); err != nil {
		log.Error("stream ensure failed", zap.Error(err))
		nc.Close()
		return nil, nil
	}
	log.Info("nats connected")
	return js, nc.Close
}
