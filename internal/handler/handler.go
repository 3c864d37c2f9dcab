package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/repository"
	"github.com/ss6051/shift-payroll/backend/internal/wage"
)

// Publisher 是消息队列的发布端，*amqp.Channel 满足该接口
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	publisher   Publisher
	redisClient *redis.Client
	calculator  *wage.Calculator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, publisher Publisher, rdb *redis.Client, calculator *wage.Calculator) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		publisher:   publisher,
		redisClient: rdb,
		calculator:  calculator,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true, // 令牌通过 cookie 传递
		MaxAge:           300,
	}))

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(h.requireInitialAdmin)
			r.Post("/", h.CreateAccount)
			r.Get("/", h.GetAllAccounts)
			r.With(h.accountInfo).Get("/{accountID}", h.GetAccount)
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", h.CreateStore)
			r.Get("/", h.GetMyStores)
			r.Post("/join", h.JoinStore)

			r.Route("/{storeID}", func(r chi.Router) {
				r.Use(h.store)
				r.Use(h.membership)

				r.Get("/", h.GetStore)
				r.With(h.requireManager).Post("/invite-code", h.CreateInviteCode)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", h.GetStoreMembers)
					r.Route("/{accountID}", func(r chi.Router) {
						r.Use(h.member)
						r.With(h.requireManager).Patch("/", h.UpdateStoreMember)
						r.With(h.requireManager).Delete("/", h.DeleteStoreMember)
						r.Get("/scheduled-days", h.GetScheduledWorkDays)
						r.With(h.requireManager).Put("/scheduled-days", h.ReplaceScheduledWorkDays)
					})
				})

				r.Route("/work-intervals", func(r chi.Router) {
					r.Post("/", h.CreateWorkInterval)
					r.Get("/", h.GetWorkIntervals)
				})

				r.Get("/salary", h.CalculateSalary)
				r.Get("/work-time", h.ComputeWorkTime)

				r.Route("/payroll", func(r chi.Router) {
					r.Use(h.requireManager)
					r.Get("/", h.GetStorePayroll)
					r.Post("/runs", h.EnqueuePayrollRun)
				})
			})
		})

		r.Route("/work-intervals/{id}", func(r chi.Router) {
			r.Use(h.workInterval)
			r.Patch("/", h.UpdateWorkInterval)
			r.Delete("/", h.DeleteWorkInterval)
		})
	})
}
