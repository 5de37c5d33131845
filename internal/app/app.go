package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/catalog-engine/config"
	"github.com/niksmo/catalog-engine/internal/adapter/httphandler"
	"github.com/niksmo/catalog-engine/internal/adapter/kafka"
	"github.com/niksmo/catalog-engine/internal/adapter/storage"
	"github.com/niksmo/catalog-engine/internal/core/normalize"
	"github.com/niksmo/catalog-engine/internal/core/service"
	"github.com/niksmo/catalog-engine/internal/core/spec"
	"github.com/niksmo/catalog-engine/pkg/schema"
)

type serdes struct {
	draft  schema.Serde
	recall schema.Serde
}

type App struct {
	ctx             context.Context
	cfg             config.Config
	sqldb           storage.SQLDB
	serdes          serdes
	recallProducer  kafka.RecallRuleProducer
	draftsConsumer  kafka.DraftsConsumer
	recallTableProc *kafka.RecallTableProcessor
	draftGateProc   *kafka.DraftGateProcessor
	service         service.Service
	httpServer      httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initSerdes()
	app.initRecallProducer()
	app.initCoreService()
	app.initDraftsConsumer()
	app.initProcessors()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	draftSS := app.cfg.Broker.Topics.RawDrafts + "-value"
	draftSerde, err := schema.NewSerdeProductDraftV1(
		ctx,
		schema.SubjectOpt(draftSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	recallSS := app.cfg.Broker.Topics.RecallStream + "-value"
	recallSerde, err := schema.NewSerdeRecallRuleV1(
		ctx,
		schema.SubjectOpt(recallSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.draft = draftSerde
	app.serdes.recall = recallSerde
}

func (app *App) initRecallProducer() {
	const op = "App.initRecallProducer"

	producer, err := kafka.NewRecallRuleProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.RecallStream,
		),
		kafka.ProducerEncoderOpt(app.serdes.recall),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.recallProducer = producer
}

func (app *App) initCoreService() {
	registry := spec.New()
	app.service = service.New(
		registry,
		normalize.New(registry),
		storage.NewProductsRepository(app.sqldb),
		storage.NewCategoriesRepository(app.sqldb),
		storage.NewDraftsRepository(app.sqldb),
		app.recallProducer,
	)
}

func (app *App) initDraftsConsumer() {
	const op = "App.initDraftsConsumer"

	cl, err := kgo.NewClient(
		kgo.SeedBrokers(app.cfg.Broker.SeedBrokers...),
		kgo.ConsumeTopics(app.cfg.Broker.Topics.AcceptedDrafts),
		kgo.ConsumerGroup(app.cfg.Broker.Consumers.DraftSaverGroup),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.draftsConsumer = kafka.NewDraftsConsumer(
		kafka.DraftsConsumerClientOpt(cl),
		kafka.DraftsConsumerImporterOpt(app.service),
		kafka.DraftsConsumerDecodeFnOpt(app.serdes.draft.Decode),
	)
}

func (app *App) initProcessors() {
	const op = "App.initProcessors"

	recallTableProc, err := kafka.NewRecallTableProc(
		app.cfg.Broker.SeedBrokers,
		app.cfg.Broker.Topics.RecallStream,
		app.cfg.Broker.Topics.RecallTable,
		app.serdes.recall,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	draftGateProc, err := kafka.NewDraftGateProc(
		app.cfg.Broker.SeedBrokers,
		app.cfg.Broker.Topics.RawDrafts,
		app.cfg.Broker.Topics.RecallTable,
		app.cfg.Broker.Topics.AcceptedDrafts,
		app.serdes.draft,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.recallTableProc = recallTableProc
	app.draftGateProc = draftGateProc
}

func (app *App) initHTTPServer() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service, app.service)
	httphandler.RegisterCatalog(mux, app.service)
	httphandler.RegisterCheckout(mux, app.service)
	httphandler.RegisterRecalls(mux, app.service)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

// Run starts the http server, the drafts consumer and the stream
// processors. Blocks until the processors are ready.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.draftsConsumer.Run(app.ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go app.recallTableProc.Run(app.ctx, stopFn, &wg)
	go app.draftGateProc.Run(app.ctx, stopFn, &wg)
	wg.Wait()

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.draftsConsumer.Close()
	app.recallTableProc.Close()
	app.draftGateProc.Close()
	app.recallProducer.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
