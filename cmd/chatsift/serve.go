package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/hurttlocker/chatsift/internal/config"
	"github.com/hurttlocker/chatsift/internal/llm"
	"github.com/hurttlocker/chatsift/internal/mcp"
	"github.com/hurttlocker/chatsift/internal/web"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

func runWeb(args []string) error {
	var listen string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--listen" && i+1 < len(args):
			i++
			listen = args[i]
		case strings.HasPrefix(args[i], "--listen="):
			listen = strings.TrimPrefix(args[i], "--listen=")
		case strings.HasPrefix(args[i], "-"):
			return usagef("unknown flag: %s", args[i])
		default:
			return usagef("unexpected argument: %s", args[i])
		}
	}

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "WARN: no .env file found, using the environment as-is")
	}

	rc, err := config.ResolveConfig(config.ResolveOptions{CLIListen: listen})
	if err != nil {
		return err
	}

	addr := config.Effective(rc.Listen, ":8080")
	// Platform-injected PORT beats the built-in default but loses to an
	// explicit config, env, or flag value.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && addr.Source == config.SourceDefault {
		addr = config.ResolvedValue{Value: ":" + port, Source: config.SourceEnv, From: "PORT"}
	}

	llmSpec := config.Effective(rc.LLM, "openrouter")
	llmCfg, err := llm.ParseLLMFlag(llmSpec.Value)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	llmCfg.APIKey = rc.APIKeyForProvider(llmSpec.Value).Value

	srv := web.New(web.Config{
		ArtifactDir: rc.ArtifactDir.Value,
		LLM:         llmCfg,
		ChunkSize:   config.EffectiveInt(rc.ChunkSize, cliChunkSize),
		DaysBack:    config.EffectiveInt(rc.DaysBack, 7),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr.Value)
}

func runMCP(args []string) error {
	if len(args) > 0 {
		return usagef("usage: chatsift mcp")
	}
	if err := server.ServeStdio(mcp.NewServer(version)); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func runConfig(args []string) error {
	if len(args) > 0 {
		return usagef("usage: chatsift config")
	}
	rc, err := config.ResolveConfig(config.ResolveOptions{})
	if err != nil {
		return err
	}

	fmt.Printf("Config file: %s\n\n", rc.ConfigPath)
	fmt.Printf("%-13s %-28s %-8s %s\n", "SETTING", "VALUE", "SOURCE", "FROM")
	printConfigRow("llm", config.Effective(rc.LLM, "openrouter"))
	printConfigRow("chunk_size", config.Effective(rc.ChunkSize, strconv.Itoa(cliChunkSize)))
	printConfigRow("listen", config.Effective(rc.Listen, ":8080"))
	printConfigRow("artifact_dir", config.Effective(rc.ArtifactDir, os.TempDir()))
	printConfigRow("days_back", config.Effective(rc.DaysBack, "7"))

	if len(rc.LLMKeys) > 0 {
		fmt.Println("\nAPI keys:")
		names := make([]string, 0, len(rc.LLMKeys))
		for name := range rc.LLMKeys {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := rc.LLMKeys[name]
			fmt.Printf("  %-12s %s (%s)\n", name, redactKey(v.Value), v.From)
		}
	}
	return nil
}

func printConfigRow(name string, v config.ResolvedValue) {
	from := v.From
	if from == "" {
		from = "-"
	}
	fmt.Printf("%-13s %-28s %-8s %s\n", name, v.Value, v.Source, from)
}

// redactKey masks an API key, keeping just enough to recognize it.
func redactKey(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "***"
}
