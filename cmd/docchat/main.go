package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/corvidae/docchat"
	"github.com/corvidae/docchat/answer"
	"github.com/corvidae/docchat/document"
	"github.com/corvidae/docchat/embedding"
	"github.com/corvidae/docchat/persistence/gobcache"
	"github.com/corvidae/docchat/vector"

	mcpE "github.com/corvidae/docchat/mcp"
	httpT "github.com/corvidae/docchat/transport/http"
	natsT "github.com/corvidae/docchat/transport/nats"
)

func main() {
	godotenv.Load()

	cmd := &cli.Command{
		Name:  "docchat",
		Usage: "Chat with a local folder of PDF documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the config file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("DOCCHAT_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "documents",
				Usage: "Override the document folder",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Override the embedding cache directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Usage:  "Interactive question answering over the corpus",
				Action: runChat,
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question and exit",
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to ground the answer in",
						Value: docchat.DefaultTopK,
					},
				},
				Action: runAsk,
			},
			{
				Name:   "reset",
				Usage:  "Clear the embedding cache and rebuild it for every document",
				Action: runReset,
			},
			{
				Name:  "serve",
				Usage: "Serve the corpus over HTTP and optionally NATS",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "http-addr",
						Usage: "HTTP server address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "nats",
						Usage:   "NATS server URL; empty disables the NATS transport",
						Sources: cli.EnvVars("NATS_URL"),
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "NATS topic prefix",
						Value: "docchat",
					},
				},
				Action: runServe,
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func loadConfig(cmd *cli.Command) (docchat.Config, error) {
	path := cmd.String("config")

	cfg, err := docchat.LoadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return docchat.Config{}, err
		}

		cfg.ApplyDefaults()
	}

	if documents := cmd.String("documents"); documents != "" {
		cfg.Documents = documents
	}

	if cache := cmd.String("cache"); cache != "" {
		cfg.Cache = cache
	}

	return cfg, nil
}

func buildStore(cfg docchat.Config) (*vector.Store, error) {
	cache, err := gobcache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   cfg.Embedder.Timeout.Duration(),
	})
	if err != nil {
		return nil, err
	}

	chunker := document.NewWordChunker(cfg.Chunker.Words, cfg.Chunker.Overlap)

	return vector.NewStore(cache, embedder, document.NewPDFExtractor(), chunker), nil
}

func buildService(ctx context.Context, cmd *cli.Command, log *zap.Logger) (docchat.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	generator, err := answer.NewClient(answer.Config{
		BaseURL:    cfg.Answerer.BaseURL,
		APIKeyEnv:  cfg.Answerer.APIKeyEnv,
		Model:      cfg.Answerer.Model,
		Timeout:    cfg.Answerer.Timeout.Duration(),
		MaxRetries: cfg.Answerer.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	svc, err := docchat.NewService(ctx, cfg, store, generator)
	if err != nil {
		return nil, err
	}

	return docchat.LoggingMiddleware(log)(svc), nil
}

func newLogger() (*zap.Logger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	svc, err := buildService(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	prompt := color.New(color.FgCyan, color.Bold)
	reply := color.New(color.FgGreen)

	fmt.Println("Ask questions about your documents. Ctrl+D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Print("you> ")

		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := svc.Ask(ctx, question)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		reply.Println(answer)
		fmt.Println()
	}
}

func runAsk(ctx context.Context, cmd *cli.Command) error {
	question := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if question == "" {
		return errors.New("usage: docchat ask <question>")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	svc, err := buildService(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	answer, err := svc.Ask(ctx, question, int(cmd.Int("top-k")))
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

// runReset rebuilds the cache without constructing a service, so no
// eager corpus build happens against the stale cache first.
func runReset(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	if err := store.Reset(ctx, cfg.Documents); err != nil {
		return err
	}

	fmt.Printf("Reset vector store: processed all PDFs in %s\n", cfg.Documents)
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	svc, err := buildService(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	endpoints := docchat.EndpointSet{
		Ask:      docchat.AskEndpoint(svc),
		Retrieve: docchat.RetrieveEndpoint(svc),
		Reset:    docchat.ResetEndpoint(svc),
	}

	r := gin.Default()
	httpT.AddRouters(r, endpoints)

	mcpEndpoints := make(map[mcp.MCPMethod]mcpE.MCPEndpoint)
	mcpEndpoints[mcp.MethodInitialize] = mcpE.InitializeEndpoint(svc)
	mcpEndpoints[mcp.MethodPing] = mcpE.PingEndpoint(svc)
	mcpEndpoints[mcp.MethodToolsList] = mcpE.ListToolsEndpoint(svc)
	mcpEndpoints[mcp.MethodToolsCall] = mcpE.CallToolEndpoint(svc)
	httpT.AddStreamableRouters(r, mcpEndpoints)

	go r.Run(cmd.String("http-addr"))

	natsURL := cmd.String("nats")
	if natsURL != "" {
		nc, err := nats.Connect(natsURL,
			nats.Name("DocChat Server"),
		)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "docchat",
			Version: "1.0.0",
		})
		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(cmd.String("topic"))
		natsT.AddEndpoints(root, endpoints)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
