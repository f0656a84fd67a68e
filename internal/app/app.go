package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/client/db/migrations"
	"github.com/ArturZahn/OBBot/internal/closer"
	"github.com/ArturZahn/OBBot/internal/config"
	"go.uber.org/zap"
)

const (
	JobRun      = "run"
	JobScrape   = "scrape"
	JobClassify = "classify"
	JobReview   = "review"
	JobWrite    = "write"
	JobBot      = "bot"
	JobMigrate  = "migrate"
)

var (
	configPath string
	job        string
)

func init() {
	flag.StringVar(&configPath, "config-path", ".env", "path to config file")
	flag.StringVar(&job, "job", JobRun, "run|scrape|classify|review|write|bot|migrate")
}

type App struct {
	serviceProvider *ServiceProvider
	job             string
}

func NewApp(ctx context.Context) (*App, error) {
	a := &App{job: job}

	err := a.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := closer.CloseAll(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := a.serviceProvider.Logger().With(zap.String("job", a.job))
	log.Info("starting")

	switch a.job {
	case JobMigrate:
		return nil
	case JobScrape:
		_, err := a.serviceProvider.IngestJob(ctx).Run(ctx)
		return err
	case JobClassify:
		_, err := a.serviceProvider.ClassifyJob(ctx).Run(ctx)
		return err
	case JobReview:
		_, err := a.serviceProvider.ReviewJob(ctx).Run(ctx)
		return err
	case JobWrite:
		_, err := a.serviceProvider.WriteJob(ctx).Run(ctx)
		return err
	case JobBot:
		return a.runBot(ctx)
	default:
		return a.runAll(ctx)
	}
}

func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.checkConfig,
		a.initStore,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) initConfig(context.Context) error {
	switch a.job {
	case JobRun, JobScrape, JobClassify, JobReview, JobWrite, JobBot, JobMigrate:
	default:
		return fmt.Errorf("unknown job %q", a.job)
	}
	return config.Load(configPath)
}

func (a *App) initServiceProvider(context.Context) error {
	a.serviceProvider = NewServiceProvider()
	return nil
}

// checkConfig reads every setting the job needs so a missing credential
// aborts before the store is touched.
func (a *App) checkConfig(context.Context) error {
	sp := a.serviceProvider
	sp.DBConfig()

	switch a.job {
	case JobRun:
		sp.BotConfig()
		sp.LedgerConfig()
		sp.SchedulerConfig()
		sp.ScraperConfig()
		sp.AdminConfig()
	case JobScrape:
		sp.ScraperConfig()
	case JobClassify:
		sp.LedgerConfig()
		sp.SchedulerConfig()
	case JobReview:
		sp.BotConfig()
		sp.SchedulerConfig()
	case JobWrite:
		sp.LedgerConfig()
		sp.SchedulerConfig()
	case JobBot:
		sp.BotConfig()
		sp.LedgerConfig()
	}
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	if err := migrations.Up(ctx, a.serviceProvider.DBClient(ctx)); err != nil {
		return err
	}
	a.serviceProvider.Logger().Info("store ready", zap.String("driver", a.serviceProvider.DBConfig().Driver()))
	return nil
}

func (a *App) startChat(ctx context.Context) (*chat.Runtime, error) {
	runtime := a.serviceProvider.ChatRuntime(ctx)
	if err := runtime.Start(ctx); err != nil {
		return nil, err
	}
	closer.Add(func() error {
		return runtime.Stop(chat.DefaultGrace)
	})
	return runtime, nil
}

func (a *App) runBot(ctx context.Context) error {
	if _, err := a.startChat(ctx); err != nil {
		return err
	}
	if err := a.serviceProvider.RefreshCategories(ctx); err != nil {
		a.serviceProvider.Logger().Warn("failed to load categories", zap.Error(err))
	}

	a.serviceProvider.Logger().Info("🤖 bot is running... (Press Ctrl+C to stop)")
	<-ctx.Done()
	a.serviceProvider.Logger().Info("⏹️ shutting down gracefully...")
	return nil
}

func (a *App) runAll(ctx context.Context) error {
	sp := a.serviceProvider
	log := sp.Logger()

	// чат должен быть запущен до сборки джобов: ReviewJob берёт его Submit
	if _, err := a.startChat(ctx); err != nil {
		return err
	}

	orchestrator := sp.Orchestrator(ctx)

	c, err := orchestrator.Schedule(sp.SchedulerConfig().Schedule())
	if err != nil {
		return err
	}
	closer.Add(func() error {
		<-c.Stop().Done()
		return nil
	})

	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	defer signal.Stop(usr1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-usr1:
				log.Info("pipeline triggered by SIGUSR1")
				orchestrator.Trigger()
			}
		}
	}()

	if addr := sp.AdminConfig().Address(); addr != "" {
		server := sp.APIServer(ctx)
		server.Start(addr)
		closer.Add(func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(shutdownCtx)
		})
	}

	log.Info("🤖 bot is running... (Press Ctrl+C to stop)")
	err = orchestrator.Run(ctx)
	log.Info("⏹️ shutting down gracefully...")
	return err
}
