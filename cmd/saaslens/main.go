package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/analyzer"
	"github.com/saaslens/saaslens/pkg/api"
	"github.com/saaslens/saaslens/pkg/llm"
	"github.com/saaslens/saaslens/pkg/server"
	"github.com/saaslens/saaslens/pkg/storage"
	"github.com/saaslens/saaslens/pkg/tools"
	"github.com/saaslens/saaslens/pkg/tools/analyze"
	"github.com/saaslens/saaslens/pkg/tools/history"
	translatetool "github.com/saaslens/saaslens/pkg/tools/translate"
	"github.com/saaslens/saaslens/pkg/translate"
)

const (
	ServerName      = "saaslens"
	ServiceName     = "SaaS Tool Analysis Service"
	ShutdownTimeout = 10 * time.Second
)

//go:embed VERSION
var Version string

func main() {
	var (
		debug        bool
		bindAddr     string
		dbPath       string
		apiKey       string
		model        string
		printVersion bool
	)
	flag.BoolVar(&debug, "debug", false, "debug mode")
	flag.StringVar(&bindAddr, "bind", "localhost:8787", "bind address (host:port)")
	flag.StringVar(&dbPath, "db", "build/saaslens.db", "SQLite database file path")
	flag.StringVar(&apiKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (defaults to OPENAI_API_KEY)")
	flag.StringVar(&model, "model", llm.DefaultModel, "completion model")
	flag.BoolVar(&printVersion, "version", false, "print version and exit")
	flag.Parse()
	// Sanitize version
	version := strings.TrimSpace(Version)
	// Check if the version flag is set
	if printVersion {
		fmt.Printf("%s Version: %s\n", ServiceName, version)
		os.Exit(0)
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger.Debug().Msg("debug mode enabled")
	}

	// Initialize storage
	storeCfg := storage.Config{
		DatabasePath: dbPath,
		Debug:        debug,
	}
	store, err := storage.NewSQLiteStorage(storeCfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to initialize storage: %v", err)
	}
	logger.Info().Msgf("Database initialized at %s", dbPath)

	completer := llm.NewClient(llm.Config{APIKey: apiKey, Model: model}, logger)
	if !completer.Configured() {
		logger.Warn().Msg("No API key configured: analyze requests will fail, translations degrade to passthrough")
	}

	an := analyzer.New(analyzer.Config{}, store, completer, logger)
	tr := translate.New(translate.Config{}, completer, logger)

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}
	srv := server.NewServer(impl, store, an, tr)

	// Register MCP tools
	toolList := []tools.Tool{
		analyze.New(logger),
		translatetool.New(logger),
		history.New(logger),
	}
	for _, tool := range toolList {
		if err := tool.Register(srv); err != nil {
			logger.Error().Msgf("Failed to register tool: %v", err)
		}
	}

	// Stateless mode avoids "session not found" errors after server restart
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return &srv.Server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	apiServer := api.New(ServiceName, version, store, an, logger, debug)
	apiServer.Mount("/mcp", mcpHandler)

	httpServer := &http.Server{
		Addr:              bindAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Msgf("%s starting on address %s", ServiceName, bindAddr)
	logger.Info().Msgf("Analyze endpoint available at: http://%s/api/analyze", bindAddr)
	logger.Info().Msgf("MCP endpoint available at: http://%s/mcp", bindAddr)

	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Msgf("%s failed to start: %v", ServerName, err)
		}
	}()
	<-signalCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Msgf("%s HTTP shutdown error: %v", ServiceName, err)
	}
	// Shutdown MCP server and close storage
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Msgf("%s shutdown error: %v", ServiceName, err)
	} else {
		logger.Info().Msgf("%s shutdown complete", ServiceName)
	}
}
