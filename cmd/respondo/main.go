package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/ternarybob/respondo/internal/services/agent"
	"github.com/ternarybob/respondo/internal/services/corpus"
	"github.com/ternarybob/respondo/internal/services/llm"
	"github.com/ternarybob/respondo/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	loadDir      = flag.String("load", "", "Load .txt/.md documents from a directory into the corpus before answering")
	retries      = flag.Int("retries", -1, "Reformulation retries after the first attempt (overrides config)")
	clearCorpus  = flag.Bool("clear", false, "Clear the corpus before loading or answering")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Respondo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" && *loadDir == "" && !*clearCorpus {
		fmt.Fprintln(os.Stderr, "Usage: respondo [-config respondo.toml] [-load dir] [-retries n] [-clear] \"question\"")
		os.Exit(2)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("respondo.toml"); err == nil {
			configFiles = append(configFiles, "respondo.toml")
		} else if _, err := os.Stat("deployments/local/respondo.toml"); err == nil {
			// Fallback for users running from the project root
			configFiles = append(configFiles, "deployments/local/respondo.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	if *retries >= 0 {
		config.Agent.MaxRetries = *retries
	}

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Str("corpus_path", config.Corpus.Path).
		Str("log_level", config.Logging.Level).
		Str("provider", string(config.LLM.DefaultProvider)).
		Int("max_retries", config.Agent.MaxRetries).
		Msg("Resolved configuration")

	if err := run(question); err != nil {
		logger.Fatal().Err(err).Msg("Respondo failed")
	}
}

func run(question string) error {
	// Cancel on interrupt so in-flight model calls stop promptly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := badger.NewBadgerDB(logger, &config.Corpus)
	if err != nil {
		return fmt.Errorf("failed to open corpus store: %w", err)
	}

	storage := badger.NewCorpusStorage(db, logger)
	defer storage.Close()

	corpusService := corpus.NewService(storage, logger)

	if *clearCorpus {
		if err := corpusService.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear corpus: %w", err)
		}
		logger.Info().Msg("Corpus cleared")
	}

	if *loadDir != "" {
		loaded, err := loadDocuments(ctx, corpusService, *loadDir)
		if err != nil {
			return fmt.Errorf("failed to load documents from %s: %w", *loadDir, err)
		}
		logger.Info().Int("count", loaded).Str("dir", *loadDir).Msg("Documents loaded into corpus")
	}

	if question == "" {
		return nil
	}

	llmService, err := llm.NewLLMService(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	defer llmService.Close()

	// Validate API key and connectivity before spending retrieval work.
	if err := llmService.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s service health check failed: %w", llmService.Provider(), err)
	}
	logger.Debug().Str("provider", llmService.Provider()).Msg("LLM service health check passed")

	agentService := agent.NewService(&config.Agent, corpusService, llmService, logger)

	result, err := agentService.Query(ctx, question, config.Agent.MaxRetries)
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(output))

	return nil
}

// loadDocuments stores every .txt and .md file under dir as one corpus
// document, keyed by file name.
func loadDocuments(ctx context.Context, corpusService *corpus.Service, dir string) (int, error) {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
		default:
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			logger.Warn().Str("path", path).Msg("Skipping empty document")
			return nil
		}

		doc := &models.CorpusDocument{
			SourceID: filepath.Base(path),
			Text:     string(data),
		}
		if err := corpusService.AddDocument(ctx, doc); err != nil {
			return err
		}
		loaded++
		return nil
	})
	return loaded, err
}
