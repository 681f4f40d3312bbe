package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/azauth"
	"github.com/kailas-cloud/vecagent/internal/config"
	dbMongo "github.com/kailas-cloud/vecagent/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/vecagent/internal/db/redis"
	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	logpkg "github.com/kailas-cloud/vecagent/internal/logger"
	"github.com/kailas-cloud/vecagent/internal/metrics"
	budgetrepo "github.com/kailas-cloud/vecagent/internal/repository/budget"
	"github.com/kailas-cloud/vecagent/internal/repository/embcache"
	hotelrepo "github.com/kailas-cloud/vecagent/internal/repository/hotel"
	openaiTransport "github.com/kailas-cloud/vecagent/internal/transport/openai"
	"github.com/kailas-cloud/vecagent/internal/usecase/agent"
	"github.com/kailas-cloud/vecagent/internal/usecase/budget"
	embeddinguc "github.com/kailas-cloud/vecagent/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/vecagent/internal/usecase/health"
	"github.com/kailas-cloud/vecagent/internal/usecase/ingest"
	"github.com/kailas-cloud/vecagent/internal/usecase/pipeline"
	"github.com/kailas-cloud/vecagent/internal/usecase/search"
)

// app is the composition root. Everything it opens is closed by Close.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	cred  azcore.TokenCredential
	store *dbMongo.Store
	kv    *dbRedis.Store
	hotel *hotelrepo.Repo

	tracker  *budget.Tracker
	embedder domain.Embedder
}

// newApp loads config, builds the logger and registers metrics.
// Connections are opened lazily by connect so that commands pay only for what they use.
func newApp(flags *globalFlags) (*app, error) {
	env := flags.env
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Explicit registration, no init()
	metrics.RegisterModelMetrics()
	metrics.RegisterPipelineMetrics()

	return &app{env: env, cfg: cfg, logger: logger}, nil
}

// credential returns the shared Azure credential, creating it on first use.
func (a *app) credential() (azcore.TokenCredential, error) {
	if a.cred != nil {
		return a.cred, nil
	}
	cred, err := azauth.NewCredential()
	if err != nil {
		return nil, err
	}
	a.cred = cred
	return cred, nil
}

// connect opens the document store and, when configured, the cache backend.
func (a *app) connect(ctx context.Context) error {
	dbCfg := a.cfg.Database
	mcfg := dbMongo.Config{
		ConnectionString:       dbCfg.ConnectionString,
		ClusterName:            dbCfg.ClusterName,
		Passwordless:           dbCfg.Passwordless,
		Database:               dbCfg.Name,
		Collection:             dbCfg.Collection,
		ConnectTimeout:         time.Duration(dbCfg.ConnectTimeoutSec) * time.Second,
		ServerSelectionTimeout: time.Duration(dbCfg.ServerSelectionTimeoutSec) * time.Second,
		MaxPoolSize:            dbCfg.MaxPoolSize,
	}
	if dbCfg.UsesOIDC() {
		cred, err := a.credential()
		if err != nil {
			return err
		}
		mcfg.Credential = cred
	}

	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(dbCfg.ReadinessTimeout)*time.Second)
	defer cancel()

	store, err := dbMongo.Connect(connectCtx, mcfg)
	if err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	a.store = store
	a.hotel = hotelrepo.New(store, dbCfg.VectorField, a.cfg.IndexDefinition().Similarity, a.logger)
	a.logger.Info("Connected to database",
		zap.String("database", dbCfg.Name),
		zap.String("collection", dbCfg.Collection),
		zap.Bool("passwordless", dbCfg.UsesOIDC()),
	)

	if a.cfg.Cache.Enabled() {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    a.cfg.Cache.Addrs,
			Password: a.cfg.Cache.Password,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		if err := kv.WaitForReady(ctx, time.Duration(dbCfg.ReadinessTimeout)*time.Second); err != nil {
			kv.Close()
			return fmt.Errorf("cache not ready: %w", err)
		}
		a.kv = kv
		a.logger.Info("Connected to cache", zap.Strings("addrs", a.cfg.Cache.Addrs))
	}
	return nil
}

// Close releases the database client and the cache connection.
func (a *app) Close() {
	if a.kv != nil {
		a.kv.Close()
	}
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.store.Close(ctx); err != nil {
			a.logger.Warn("Failed to close database client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// budgetTracker builds the token budget shared by embeddings and chat. Returns nil when no limit is set.
func (a *app) budgetTracker(ctx context.Context) *budget.Tracker {
	if a.tracker != nil || !a.cfg.Budget.Enabled() {
		return a.tracker
	}
	action := budget.ActionWarn
	if a.cfg.Budget.Action == string(budget.ActionReject) {
		action = budget.ActionReject
	}
	t := budget.NewTracker("openai", a.cfg.Budget.DailyTokenLimit, a.cfg.Budget.MonthlyTokenLimit, action, a.logger)
	if a.kv != nil {
		// Loads current counters so that restarts don't reset the budget.
		t.WithStore(ctx, budgetrepo.New(a.kv, 48*time.Hour, 62*24*time.Hour))
	}
	a.tracker = t
	return t
}

// clientConfig builds the go-openai client settings for one deployment's API version.
func (a *app) clientConfig(apiVersion string) (*openaiTransport.ClientConfig, error) {
	oc := a.cfg.OpenAI
	cc := &openaiTransport.ClientConfig{
		Endpoint:   oc.Endpoint,
		APIKey:     oc.APIKey,
		APIVersion: apiVersion,
		AzureAD:    oc.UsesAzureAD(),
		Timeout:    time.Duration(oc.TimeoutSec) * time.Second,
	}
	if cc.AzureAD {
		cred, err := a.credential()
		if err != nil {
			return nil, err
		}
		cc.Credential = cred
	}
	return cc, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> DimensionCheck.
func (a *app) buildEmbedder(ctx context.Context) (domain.Embedder, error) {
	if a.embedder != nil {
		return a.embedder, nil
	}
	dep := a.cfg.OpenAI.Embedding
	cc, err := a.clientConfig(dep.APIVersion)
	if err != nil {
		return nil, err
	}
	client, err := openaiTransport.NewClient(*cc)
	if err != nil {
		return nil, err
	}

	// Base provider (with transport metrics built-in)
	var embedder domain.Embedder = openaiTransport.NewEmbedder(client, &openaiTransport.EmbedderConfig{
		Deployment: dep.Deployment,
		Dimensions: a.cfg.Index.Dimensions,
		Logger:     a.logger,
	})

	if a.kv != nil {
		embedder = embcache.New(embedder, a.kv, dep.Deployment,
			time.Duration(a.cfg.Cache.TTLSec)*time.Second, metrics.EmbeddingCacheTotal, a.logger)
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var checker embeddinguc.BudgetChecker
	if t := a.budgetTracker(ctx); t != nil {
		checker = t
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, "azure-openai", dep.Deployment, checker, a.logger)

	a.embedder = domain.NewDimensionCheckEmbedder(embedder, a.cfg.Index.Dimensions)
	a.logger.Info("Embedder created",
		zap.String("deployment", dep.Deployment),
		zap.Int("dimensions", a.cfg.Index.Dimensions),
		zap.Bool("cache", a.kv != nil),
	)
	return a.embedder, nil
}

// buildCompleter returns a budget-guarded chat completer for one agent deployment.
func (a *app) buildCompleter(ctx context.Context, agentName string, dep config.DeploymentConfig) (chat.Completer, error) {
	cc, err := a.clientConfig(dep.APIVersion)
	if err != nil {
		return nil, err
	}
	client, err := openaiTransport.NewClient(*cc)
	if err != nil {
		return nil, err
	}
	return budget.NewGuardedCompleter(
		openaiTransport.NewChatCompleter(client, agentName, a.logger),
		agentName,
		a.budgetTracker(ctx),
	), nil
}

// buildPipeline wires the search tool, both agents and the driver.
func (a *app) buildPipeline(ctx context.Context) (*pipeline.Service, error) {
	embedder, err := a.buildEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	plannerLLM, err := a.buildCompleter(ctx, domain.AgentPlanner, a.cfg.OpenAI.Planner)
	if err != nil {
		return nil, fmt.Errorf("planner client: %w", err)
	}
	synthLLM, err := a.buildCompleter(ctx, domain.AgentSynthesizer, a.cfg.OpenAI.Synthesizer)
	if err != nil {
		return nil, fmt.Errorf("synthesizer client: %w", err)
	}

	tool := search.NewTool(a.hotel, embedder, a.cfg.Search.NearestNeighbors, a.logger)
	planner := agent.NewPlanner(plannerLLM, tool, a.cfg.OpenAI.Planner.Deployment, a.logger)
	synth := agent.NewSynthesizer(synthLLM, a.cfg.OpenAI.Synthesizer.Deployment, a.logger)

	return pipeline.New(planner, synth, a.cfg.Search.Query, a.cfg.Search.NearestNeighbors, a.logger), nil
}

// buildIngest wires the upload service.
func (a *app) buildIngest(ctx context.Context) (*ingest.Service, error) {
	embedder, err := a.buildEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.New(a.hotel, embedder, a.cfg.IndexDefinition(), a.logger), nil
}

// buildHealth wires the health checks for serve mode.
func (a *app) buildHealth(embedder domain.Embedder) *healthuc.Service {
	svc := healthuc.New(a.store, newEmbeddingHealthChecker(embedder))
	if a.kv != nil {
		svc = svc.WithCache(a.kv)
	}
	return svc
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	hc, ok := h.embedder.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

// isCancelled reports whether err comes from a Ctrl-C or SIGTERM.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
