package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"bookclub/internal/auth"
	"bookclub/internal/comment"
	"bookclub/internal/config"
	"bookclub/internal/httpx"
	"bookclub/internal/logger"
	"bookclub/internal/platform/blob"
	"bookclub/internal/platform/googleauth"
	"bookclub/internal/platform/googlebooks"
	"bookclub/internal/post"
	"bookclub/internal/search"
	"bookclub/internal/session"
	"bookclub/internal/user"
)

const repoTimeout = 3 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		bootLog := logger.New("bookclub", "info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New("bookclub", cfg.LogLevel)

	ctx := context.Background()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer dbPool.Close()
	log.Info().Msg("database connection OK")

	blobStore, err := blob.New(ctx, blob.Config{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		UseSSL:    cfg.BlobUseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open blob store")
	}

	userRepo := user.NewPostgresRepo(dbPool, repoTimeout)
	sessionRepo := session.NewPostgresRepo(dbPool, repoTimeout)
	postRepo := post.NewPostgresRepo(dbPool, repoTimeout)
	commentRepo := comment.NewPostgresRepo(dbPool, repoTimeout)

	go sweepExpiredSessions(ctx, sessionRepo, log)

	booksClient := googlebooks.NewClient(cfg.BooksAPIBaseURL, cfg.BooksAPIKey, 5, 2)

	authService := auth.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		userRepo, sessionRepo, googleauth.NewClient())
	userService := user.NewService(userRepo, blobStore)
	commentService := comment.NewService(commentRepo, userRepo, log)
	postService := post.NewService(postRepo, userRepo, commentService, cfg.PageSize, log)
	searchService := search.NewService(postRepo, booksClient, cfg.PageSize, log)

	authHandler := auth.NewHTTPHandler(authService)
	userHandler := user.NewHTTPHandler(userService)
	postHandler := post.NewHTTPHandler(postService, log)
	commentHandler := comment.NewHTTPHandler(commentService)
	searchHandler := search.NewHTTPHandler(searchService)

	requireAuth := httpx.AuthMiddleware(authService.ParseAccessToken)
	authLimiter := httpx.NewRateLimitMiddleware(1, 5)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("POST /auth/signup", authLimiter.Middleware(http.HandlerFunc(authHandler.SignUp)))
	router.Handle("POST /auth/signin", authLimiter.Middleware(http.HandlerFunc(authHandler.SignIn)))
	router.Handle("POST /auth/google", authLimiter.Middleware(http.HandlerFunc(authHandler.SignInWithGoogle)))
	router.HandleFunc("POST /auth/refresh", authHandler.Refresh)
	router.HandleFunc("POST /auth/signout", authHandler.SignOut)

	router.Handle("GET /me", requireAuth(http.HandlerFunc(userHandler.Me)))
	router.Handle("PUT /me", requireAuth(http.HandlerFunc(userHandler.Update)))
	router.Handle("POST /me/photo", requireAuth(http.HandlerFunc(userHandler.UploadPhoto)))

	router.HandleFunc("GET /posts", postHandler.List)
	router.Handle("POST /posts", requireAuth(http.HandlerFunc(postHandler.Create)))
	router.HandleFunc("GET /posts/{id}", postHandler.Get)
	router.Handle("PUT /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Update)))
	router.Handle("DELETE /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Delete)))

	router.HandleFunc("GET /posts/{id}/comments", commentHandler.ListByPost)
	router.Handle("POST /posts/{id}/comments", requireAuth(http.HandlerFunc(commentHandler.Create)))
	router.Handle("DELETE /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Delete)))

	router.HandleFunc("GET /search", searchHandler.Search)

	var handler http.Handler = router
	handler = httpx.RequestSizeLimitMiddleware(5 << 20)(handler)
	handler = httpx.CORSMiddleware(cfg.CORSAllowedOrigins)(handler)
	handler = httpx.RecoveryMiddleware(log)(handler)
	handler = httpx.AccessLogMiddleware(log)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

// sweepExpiredSessions periodically removes refresh sessions past their
// expiry so the table does not grow without bound.
func sweepExpiredSessions(ctx context.Context, sessions session.Repository, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("expired sessions removed")
			}
		}
	}
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
