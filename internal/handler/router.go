package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/instachef/internal/kvstore"
	"github.com/hitoshi/instachef/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// 認証・プロフィール
	AuthService    AuthServiceInterface
	AuthConfig     AuthHandlerConfig
	ProfileService ProfileServiceInterface

	// レシピ・コメント・ライク
	RecipeService  RecipeServiceInterface
	CommentService CommentServiceInterface
	LikeService    LikeServiceInterface

	// 運用
	Usage          UsageRecorder
	MetricsMW      func(next http.Handler) http.Handler
	MetricsHandler http.Handler
	HealthPinger   kvstore.Pinger
	StaticDir      string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//	→ (保護ルートのみ) Session → RateLimit(General) → CSRF
//
// 認証ルート（/auth/*）とヘルスチェックはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	profileHandler := NewProfileHandler(deps.ProfileService)
	recipeHandler := NewRecipeHandler(deps.RecipeService, deps.Usage)
	commentHandler := NewCommentHandler(deps.CommentService, deps.Usage)
	likeHandler := NewLikeHandler(deps.LikeService, deps.Usage)
	mealPlanHandler := NewMealPlanHandler(deps.RecipeService)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Get("/remembered-email", authHandler.RememberedEmail)
	})

	r.Get("/healthz", NewHealthHandler(deps.HealthPinger))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// パスワード強度（登録フォームの助言用、未ログインで呼ばれる）
	r.Get("/api/password-strength", PasswordStrength)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		mutationMW := deps.RateLimiter.MutationMiddleware()

		// レシピ管理
		r.Route("/api/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.ListRecipes)
			// POST /api/recipes - レシピ作成（書き込み専用レート制限を追加）
			r.With(mutationMW).Post("/", recipeHandler.CreateRecipe)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", recipeHandler.GetRecipe)
				r.With(mutationMW).Put("/", recipeHandler.UpdateRecipe)
				r.With(mutationMW).Delete("/", recipeHandler.DeleteRecipe)

				// コメントスレッド
				r.Get("/comments", commentHandler.ListComments)
				r.With(mutationMW).Post("/comments", commentHandler.PostComment)
				r.With(mutationMW).Delete("/comments/{index}", commentHandler.DeleteComment)

				// ライク
				r.Get("/like", likeHandler.GetLikeState)
				r.With(mutationMW).Put("/like", likeHandler.ToggleLike)
			})
		})

		// ライク一覧
		r.Get("/api/likes", likeHandler.ListLikes)

		// 週間献立プランナー
		r.Get("/api/mealplan", mealPlanHandler.GetMealPlan)

		// プロフィール
		r.Get("/api/profile", profileHandler.GetProfile)
		r.Put("/api/profile", profileHandler.UpdateProfile)
	})

	// --- 静的ファイル配信（SPAフォールバック） ---
	if deps.StaticDir != "" {
		r.NotFound(NewSPAHandler(deps.StaticDir).ServeHTTP)
	}

	return r
}
