// Package server wires the reveal service to its storage backend, oracle,
// notifications and transports, and runs the gRPC server, the webhook
// server and the expiry sweeper until shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophreveal/internal/filex"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/config"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/metrics"
	"github.com/dmitrijs2005/gophreveal/internal/server/notify"
	"github.com/dmitrijs2005/gophreveal/internal/server/oracle"
	"github.com/dmitrijs2005/gophreveal/internal/server/policy"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreveal/internal/server/services"
	"github.com/dmitrijs2005/gophreveal/internal/server/webhook"

	gs "github.com/dmitrijs2005/gophreveal/internal/server/grpc"
)

// logOutput is where the server logs go; tests replace it.
var logOutput io.Writer = os.Stdout

type App struct {
	config  *config.Config
	logger  logging.Logger
	uow     repomanager.UnitOfWork
	reveal  *services.RevealService
	sweeper *services.Sweeper
	metrics *metrics.Metrics
}

// openUnitOfWork opens the configured storage backend.
func openUnitOfWork(ctx context.Context, c *config.Config) (repomanager.UnitOfWork, error) {
	switch c.Backend {
	case config.BackendPebble:
		dir, err := filex.EnsureDir(c.DataDir)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPebbleUnitOfWork(dir, nil)
	case config.BackendPostgres:
		return repomanager.NewPostgresUnitOfWork(ctx, c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Backend)
	}
}

// newArithmetic returns the counter arithmetic named by c.Arithmetic.
func newArithmetic(ctx context.Context, c *config.Config, logger logging.Logger) (fhe.Arithmetic, error) {
	switch c.Arithmetic {
	case config.ArithmeticClear:
		logger.Warn(ctx, "topic counters are kept in plaintext; encrypted counter handles reveal their counts",
			"arithmetic", c.Arithmetic)
		return fhe.Clear{}, nil
	default:
		return nil, fmt.Errorf("unknown counter arithmetic %q", c.Arithmetic)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	arith, err := newArithmetic(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	uow, err := openUnitOfWork(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	requester, err := oracle.NewS3Requester(ctx, oracle.S3Options{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		_ = uow.Close()
		return nil, fmt.Errorf("oracle init error: %w", err)
	}

	m := metrics.New()
	notifier := notify.NewNotifier(notify.NewLogSubscriber(logger), m)

	rs := services.NewRevealService(uow, arith, requester, oracle.NewJWTVerifier([]byte(c.OracleSecret)),
		services.WithPolicy(policy.NewAllowList(c.AllowedCallers, c.AdminCallers)),
		services.WithPublisher(notifier),
		services.WithLogger(logger),
		services.WithRequestTTL(c.PendingRequestTTL),
	)

	sweeper, err := services.NewSweeper(rs, c.ExpirySchedule, logger)
	if err != nil {
		_ = uow.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, uow: uow, reveal: rs, sweeper: sweeper, metrics: m}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.reveal, app.metrics, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startWebhookServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := webhook.NewServer(app.config.EndpointAddrHTTP, app.logger, app.reveal, app.metrics)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startSweeper(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.PendingRequestTTL <= 0 {
		return
	}
	if err := app.sweeper.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.Backend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for _, start := range []func(context.Context, context.CancelFunc){
		app.startGRPCServer,
		app.startWebhookServer,
		app.startSweeper,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(ctx, "Stopping app...")
	return app.uow.Close()
}
