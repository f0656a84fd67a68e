package app

import (
	"context"

	"github.com/ArturZahn/OBBot/internal/api"
	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/chat/telegram"
	"github.com/ArturZahn/OBBot/internal/classifier"
	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/ArturZahn/OBBot/internal/client/db/pg"
	"github.com/ArturZahn/OBBot/internal/client/db/sqlite"
	"github.com/ArturZahn/OBBot/internal/closer"
	"github.com/ArturZahn/OBBot/internal/config"
	"github.com/ArturZahn/OBBot/internal/config/env"
	"github.com/ArturZahn/OBBot/internal/handlers/review"
	"github.com/ArturZahn/OBBot/internal/ledger"
	"github.com/ArturZahn/OBBot/internal/logger"
	"github.com/ArturZahn/OBBot/internal/repository"
	"github.com/ArturZahn/OBBot/internal/scraper"
	"github.com/ArturZahn/OBBot/internal/services"
	"github.com/ArturZahn/OBBot/internal/state"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	dbConfig        config.DBConfig
	botConfig       config.BotConfig
	ledgerConfig    config.LedgerConfig
	schedulerConfig config.SchedulerConfig
	scraperConfig   config.ScraperConfig
	adminConfig     config.AdminConfig

	logger   *zap.Logger
	dbClient db.Client

	// Repositories
	transactionRepo *repository.TransactionRepository
	reviewRepo      *repository.ReviewRepository
	stateRepo       *repository.StateRepository

	// Collaborators
	bot        *telegram.Bot
	ledger     *ledger.Ledger
	scraper    *scraper.Scraper
	classifier *classifier.Classifier

	// Chat
	stateManager  *state.DBStateManager
	reviewHandler *review.Handler
	chatRuntime   *chat.Runtime

	// Jobs
	ingestJob    *services.IngestJob
	classifyJob  *services.ClassifyJob
	reviewJob    *services.ReviewJob
	writeJob     *services.WriteJob
	orchestrator *services.Orchestrator

	apiServer *api.APIServer
}

func NewServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (s *ServiceProvider) AdminConfig() config.AdminConfig {
	if s.adminConfig == nil {
		cfg, err := env.NewAdminConfig()
		if err != nil {
			s.Logger().Fatal("failed to get admin config", zap.Error(err))
		}
		s.adminConfig = cfg
	}
	return s.adminConfig
}

// Logger is built before any other config is read so failures can be logged.
func (s *ServiceProvider) Logger() *zap.Logger {
	if s.logger == nil {
		cfg, err := env.NewAdminConfig()
		if err != nil {
			panic(err)
		}
		l, err := logger.New(cfg.LogLevel())
		if err != nil {
			panic(err)
		}
		closer.Add(func() error {
			_ = l.Sync()
			return nil
		})
		s.logger = l
	}
	return s.logger
}

func (s *ServiceProvider) DBConfig() config.DBConfig {
	if s.dbConfig == nil {
		cfg, err := env.NewDBConfig()
		if err != nil {
			s.Logger().Fatal("failed to get db config", zap.Error(err))
		}
		s.dbConfig = cfg
	}
	return s.dbConfig
}

func (s *ServiceProvider) BotConfig() config.BotConfig {
	if s.botConfig == nil {
		cfg, err := env.NewBotConfig()
		if err != nil {
			s.Logger().Fatal("failed to get bot config", zap.Error(err))
		}
		s.botConfig = cfg
	}
	return s.botConfig
}

func (s *ServiceProvider) LedgerConfig() config.LedgerConfig {
	if s.ledgerConfig == nil {
		cfg, err := env.NewLedgerConfig()
		if err != nil {
			s.Logger().Fatal("failed to get ledger config", zap.Error(err))
		}
		s.ledgerConfig = cfg
	}
	return s.ledgerConfig
}

func (s *ServiceProvider) SchedulerConfig() config.SchedulerConfig {
	if s.schedulerConfig == nil {
		cfg, err := env.NewSchedulerConfig()
		if err != nil {
			s.Logger().Fatal("failed to get scheduler config", zap.Error(err))
		}
		s.schedulerConfig = cfg
	}
	return s.schedulerConfig
}

func (s *ServiceProvider) ScraperConfig() config.ScraperConfig {
	if s.scraperConfig == nil {
		cfg, err := env.NewScraperConfig()
		if err != nil {
			s.Logger().Fatal("failed to get scraper config", zap.Error(err))
		}
		s.scraperConfig = cfg
	}
	return s.scraperConfig
}

func (s *ServiceProvider) DBClient(ctx context.Context) db.Client {
	if s.dbClient == nil {
		var (
			cl  db.Client
			err error
		)
		switch s.DBConfig().Driver() {
		case db.DriverPostgres:
			cl, err = pg.New(ctx, s.DBConfig().DSN())
		default:
			cl, err = sqlite.New(ctx, s.DBConfig().DSN())
		}
		if err != nil {
			s.Logger().Fatal("failed to get db client", zap.Error(err))
		}

		closer.Add(cl.Close)
		s.dbClient = cl
	}
	return s.dbClient
}

func (s *ServiceProvider) TransactionRepository(ctx context.Context) *repository.TransactionRepository {
	if s.transactionRepo == nil {
		s.transactionRepo = repository.NewTransactionRepository(s.DBClient(ctx).DB())
	}
	return s.transactionRepo
}

func (s *ServiceProvider) ReviewRepository(ctx context.Context) *repository.ReviewRepository {
	if s.reviewRepo == nil {
		s.reviewRepo = repository.NewReviewRepository(s.DBClient(ctx).DB())
	}
	return s.reviewRepo
}

func (s *ServiceProvider) StateRepository(ctx context.Context) *repository.StateRepository {
	if s.stateRepo == nil {
		s.stateRepo = repository.NewStateRepository(s.DBClient(ctx).DB())
	}
	return s.stateRepo
}

func (s *ServiceProvider) StateManager(ctx context.Context) *state.DBStateManager {
	if s.stateManager == nil {
		s.stateManager = state.NewDBStateManager(s.StateRepository(ctx))
	}
	return s.stateManager
}

func (s *ServiceProvider) TelegramBot() *telegram.Bot {
	if s.bot == nil {
		bot, err := telegram.New(s.BotConfig().Token(), s.BotConfig().Debug(), s.Logger().Named("telegram"))
		if err != nil {
			s.Logger().Fatal("failed to start telegram bot", zap.Error(err))
		}
		s.bot = bot
	}
	return s.bot
}

func (s *ServiceProvider) Ledger(ctx context.Context) *ledger.Ledger {
	if s.ledger == nil {
		values, err := ledger.NewSheetValues(ctx, s.LedgerConfig().SpreadsheetID(), s.LedgerConfig().CredentialsFile())
		if err != nil {
			s.Logger().Fatal("failed to open ledger", zap.Error(err))
		}
		s.ledger = ledger.New(values, s.Logger().Named("ledger"))
	}
	return s.ledger
}

func (s *ServiceProvider) Scraper() *scraper.Scraper {
	if s.scraper == nil {
		s.scraper = scraper.New(scraper.Config{
			ProfileDir: s.ScraperConfig().ProfileDir(),
			Headless:   s.ScraperConfig().Headless(),
		}, s.Logger().Named("scraper"))
	}
	return s.scraper
}

func (s *ServiceProvider) Classifier() *classifier.Classifier {
	if s.classifier == nil {
		var extra []classifier.Rule
		if path := s.SchedulerConfig().RulesFile(); path != "" {
			rules, err := classifier.LoadRules(path)
			if err != nil {
				s.Logger().Fatal("failed to load rules", zap.Error(err))
			}
			s.Logger().Info("loaded extra rules", zap.String("path", path), zap.Int("count", len(rules)))
			extra = rules
		}
		s.classifier = classifier.New(extra...)
	}
	return s.classifier
}

func (s *ServiceProvider) ReviewHandler(ctx context.Context) *review.Handler {
	if s.reviewHandler == nil {
		s.reviewHandler = review.NewHandler(
			s.TelegramBot(),
			s.ReviewRepository(ctx),
			s.TransactionRepository(ctx),
			s.StateManager(ctx),
			s.BotConfig().ChatID(),
			s.Logger().Named("review"),
		)
	}
	return s.reviewHandler
}

func (s *ServiceProvider) ChatRuntime(ctx context.Context) *chat.Runtime {
	if s.chatRuntime == nil {
		s.chatRuntime = chat.NewRuntime(s.TelegramBot(), s.ReviewHandler(ctx), s.Logger().Named("chat"))
	}
	return s.chatRuntime
}

// Dispatcher sends chat work through the running chat loop, or runs it inline
// when the process has none.
func (s *ServiceProvider) Dispatcher() services.Dispatcher {
	if s.chatRuntime != nil {
		return s.chatRuntime.Submit
	}
	return services.Inline
}

func (s *ServiceProvider) IngestJob(ctx context.Context) *services.IngestJob {
	if s.ingestJob == nil {
		s.ingestJob = services.NewIngestJob(
			s.Scraper(),
			s.TransactionRepository(ctx),
			s.StateRepository(ctx),
			s.ScraperConfig().MaxPages(),
			s.Logger().Named("ingest"),
		)
	}
	return s.ingestJob
}

func (s *ServiceProvider) ClassifyJob(ctx context.Context) *services.ClassifyJob {
	if s.classifyJob == nil {
		s.classifyJob = services.NewClassifyJob(
			s.TransactionRepository(ctx),
			s.ReviewRepository(ctx),
			s.Ledger(ctx),
			s.Classifier(),
			s.SchedulerConfig().BatchLimit(),
			s.Logger().Named("classify"),
		)
	}
	return s.classifyJob
}

func (s *ServiceProvider) ReviewJob(ctx context.Context) *services.ReviewJob {
	if s.reviewJob == nil {
		s.reviewJob = services.NewReviewJob(
			s.ReviewHandler(ctx),
			s.Dispatcher(),
			s.SchedulerConfig().BatchLimit(),
			s.Logger().Named("review"),
		)
	}
	return s.reviewJob
}

func (s *ServiceProvider) WriteJob(ctx context.Context) *services.WriteJob {
	if s.writeJob == nil {
		s.writeJob = services.NewWriteJob(
			s.TransactionRepository(ctx),
			s.ReviewRepository(ctx),
			s.Ledger(ctx),
			s.SchedulerConfig().BatchLimit(),
			s.Logger().Named("write"),
		)
	}
	return s.writeJob
}

// RefreshCategories loads the ledger's category list into the review handler.
func (s *ServiceProvider) RefreshCategories(ctx context.Context) error {
	categories, err := s.Ledger(ctx).Categories(ctx)
	if err != nil {
		return err
	}
	handler := s.ReviewHandler(ctx)
	return s.Dispatcher()(ctx, func(context.Context) error {
		return handler.SetCategories(categories)
	})
}

func (s *ServiceProvider) Orchestrator(ctx context.Context) *services.Orchestrator {
	if s.orchestrator == nil {
		s.orchestrator = services.NewOrchestrator(
			s.IngestJob(ctx),
			s.ClassifyJob(ctx),
			s.ReviewJob(ctx),
			s.WriteJob(ctx),
			s.RefreshCategories,
			s.SchedulerConfig().PollInterval(),
			s.Logger().Named("orchestrator"),
		)
	}
	return s.orchestrator
}

func (s *ServiceProvider) APIServer(ctx context.Context) *api.APIServer {
	if s.apiServer == nil {
		s.apiServer = api.NewAPIServer(s.Orchestrator(ctx), s.Logger().Named("api"))
	}
	return s.apiServer
}
