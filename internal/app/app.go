package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/config"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/gemini"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/report"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/scheduler"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/search"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/sources"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/store"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting interstellar-informant",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Bool("llm_default", a.cfg.GeminiEnabled),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	srcClient := sources.NewClient(a.cfg.HTTPTimeout, a.log)

	var summarizer *report.Summarizer
	if a.cfg.GeminiAPIKey != "" {
		gen := gemini.New(a.cfg.GeminiAPIKey, a.cfg.GeminiModel, a.cfg.HTTPTimeout)
		var searcher report.Searcher
		if a.cfg.SerpAPIKey != "" {
			searcher = search.NewClient(a.cfg.SerpAPIKey, a.cfg.LLMFetchPages, a.cfg.HTTPTimeout, a.log)
		}
		summarizer = report.NewSummarizer(gen, searcher, a.log)
	}
	builder := report.NewBuilder(srcClient, summarizer, a.cfg.GeminiEnabled, a.log)

	a.sched = scheduler.New(a.repo, builder, nil, clockwork.NewRealClock(), a.log)
	a.router = telegram.NewRouter(a.bot, a.log, a.repo, builder, a.sched, srcClient, telegram.Defaults{
		TZ:           a.cfg.DefaultTZ,
		LocationPath: a.cfg.DefaultLocation,
		DailyHour:    a.cfg.DailyHour,
		DailyMinute:  a.cfg.DailyMinute,
	})
	a.sched.SetSender(a.router)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rearm daily jobs for every stored user.
	if err := a.sched.Start(ctx); err != nil {
		a.log.Error("scheduler start failed", zap.Error(err))
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			// Create a short-lived shutdown context and cancel it immediately after use.
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
