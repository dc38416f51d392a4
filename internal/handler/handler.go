package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/evo-islands/internal/config"
	"github.com/sysu-ecnc-dev/evo-islands/internal/genepool"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	genePool   *genepool.GenePool
	translator ut.Translator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, pool *genepool.GenePool) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		genePool:   pool,
		translator: trans,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/work", func(r chi.Router) {
			r.Post("/request", h.RequestWork)
			r.Post("/submit", h.SubmitWork)
		})
		r.Get("/stats", h.GetStats)
	})

	// 给容器编排用的健康检查，两个路径都保留
	h.Mux.Get("/health", h.Health)
	h.Mux.Get("/healthz", h.Health)
}
