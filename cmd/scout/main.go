// Package main provides the Scout agent tool host. It reads tool calls from
// stdin, one per message, executes them against the registered tools, and
// writes results to stdout. A driving process (the agent loop) speaks the
// same XML tool-call protocol the tools are described with.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quantfold/scout/pkg/agent/tools"
	"github.com/quantfold/scout/pkg/config"
	"github.com/quantfold/scout/pkg/logging"
	"github.com/quantfold/scout/pkg/security/workspace"
	"github.com/quantfold/scout/pkg/skills"
	"github.com/quantfold/scout/pkg/tools/browser"
	"github.com/quantfold/scout/pkg/tools/fs"
	"github.com/quantfold/scout/pkg/tools/markets"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to config file (default ~/.scout/config.yaml)")
	workspaceDir := flag.String("workspace", "", "Workspace directory (overrides config)")
	describe := flag.Bool("describe", false, "Print tool descriptions and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Scout v%s\n", version)
		return
	}

	if err := run(*configPath, *workspaceDir, *describe); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, workspaceDir string, describe bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if workspaceDir != "" {
		cfg.Workspace = workspaceDir
	}

	logger, err := logging.NewLogger("main")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	registry, cleanup, err := buildRegistry(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if describe {
		fmt.Println(registry.DescribeAll())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "scout v%s session %s, logging to %s\n", version, logger.SessionID(), logger.LogPath())
	logger.Infof("scout v%s started, workspace=%s", version, cfg.Workspace)
	return serve(ctx, registry, logger)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildRegistry wires every tool group into a single registry. The returned
// cleanup tears down browser sessions and must run on exit.
func buildRegistry(cfg *config.Config, logger *logging.Logger) (*tools.Registry, func(), error) {
	registry := tools.NewRegistry()

	manager := browser.NewManager(
		browser.NewPlaywrightFactory(cfg.Browser, logger.Writer()),
		browser.SessionOptions{SnapshotMaxChars: cfg.Browser.SnapshotMaxChars},
		logger,
	)
	cleanup := func() {
		if err := manager.CloseAll(); err != nil {
			logger.Warnf("browser cleanup failed: %v", err)
		}
	}

	var all []tools.Tool
	all = append(all, browser.RegisterTools(manager)...)

	guard, err := workspace.NewGuard(cfg.Workspace)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize workspace guard: %w", err)
	}
	all = append(all,
		fs.NewReadFileTool(guard),
		fs.NewWriteFileTool(guard),
		fs.NewEditFileTool(guard),
		fs.NewListFilesTool(guard),
	)

	client := markets.NewClient(cfg.Markets)
	all = append(all,
		markets.NewQuoteTool(client),
		markets.NewHistoryTool(client),
	)

	skillTools, err := skills.RegisterTools(cfg.SkillsDir)
	if err != nil {
		logger.Warnf("skill discovery failed: %v", err)
	}
	all = append(all, skillTools...)

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to register %s: %w", tool.Name(), err)
		}
	}

	return registry, cleanup, nil
}

// serve runs the line-oriented protocol loop: each input message is the
// text of one tool call, messages are separated by a lone "---" line, and
// each result is written back followed by the same separator.
func serve(ctx context.Context, registry *tools.Registry, logger *logging.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var message strings.Builder
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		if line != "---" {
			message.WriteString(line)
			message.WriteString("\n")
			continue
		}

		respond(ctx, registry, logger, message.String())
		message.Reset()
	}

	if message.Len() > 0 {
		respond(ctx, registry, logger, message.String())
	}
	return scanner.Err()
}

func respond(ctx context.Context, registry *tools.Registry, logger *logging.Logger, message string) {
	result := handleMessage(ctx, registry, logger, message)
	fmt.Println(result)
	fmt.Println("---")
}

func handleMessage(ctx context.Context, registry *tools.Registry, logger *logging.Logger, message string) string {
	if !tools.HasToolCall(message) {
		return "Error: no tool call found in message"
	}

	call, _, err := tools.ParseToolCall(message)
	if err != nil {
		logger.Warnf("failed to parse tool call: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}

	tool, ok := registry.Get(call.ToolName)
	if !ok {
		return fmt.Sprintf("Error: unknown tool: %s", call.ToolName)
	}

	logger.Infof("executing tool: %s", call.ToolName)
	result, _, err := tool.Execute(ctx, call.GetArgumentsXML())
	if err != nil {
		logger.Warnf("tool %s failed: %v", call.ToolName, err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
