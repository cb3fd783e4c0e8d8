package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pathcraft/internal/assistant"
	"pathcraft/internal/chunker"
	"pathcraft/internal/config"
	"pathcraft/internal/pathway"
	"pathcraft/internal/rewrite"
	"pathcraft/internal/search"
	"pathcraft/internal/session"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pathcraft",
		Short: "AI-powered training pathway assistant",
	}
	dbPath     string
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the local session database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ingestCmd.Flags().StringVar(&ingestInto, "into", "", "Instruction describing where the content should go, e.g. 'update pathway 1 section 2'")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Session.Path = dbPath
	}
	return cfg
}

func trainingContext(cfg *config.Config) chunker.TrainingContext {
	return chunker.TrainingContext{
		TrainingType:   cfg.Training.Type,
		TargetAudience: cfg.Training.Audience,
		Industry:       cfg.Training.Industry,
		PrimaryGoals:   cfg.Training.Goals,
	}
}

func openSession(ctx context.Context, cfg *config.Config) (*session.Store, *session.State) {
	store, err := session.NewStore(cfg.Session.Path)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	state, err := store.LoadLatest(ctx)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to load session: %v", err)
	}
	return store, state
}

func buildAssistant(ctx context.Context, cfg *config.Config) *assistant.Assistant {
	rewriter, err := rewrite.NewRewriter(ctx, rewrite.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
	})
	if err != nil {
		fmt.Printf("⚠️  Rewriter unavailable (%v), falling back to static regeneration.\n", err)
		rewriter = rewrite.StaticRewriter{}
	}
	return assistant.New(rewriter, trainingContext(cfg), newLogger())
}

var ingestInto string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Chunk document files into training module candidates",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		tc := trainingContext(cfg)
		total := 0
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("⚠️  Skipping %s: %v\n", path, err)
				continue
			}
			mods := chunker.Chunk(path, string(raw), tc)
			if len(mods) == 0 {
				fmt.Printf("⚠️  %s: nothing extractable\n", path)
				continue
			}
			fmt.Printf("📄 %s: %d module(s)\n", path, len(mods))
			state.Pending = append(state.Pending, mods...)
			total += len(mods)
		}

		if total == 0 {
			fmt.Println("🔄 No content extracted; staging a context-only module instead.")
			state.Pending = append(state.Pending, chunker.ContextFallback(tc))
		}

		if ingestInto != "" {
			bot := buildAssistant(ctx, cfg)
			fmt.Println(bot.Handle(ctx, ingestInto, state))
		} else {
			fmt.Printf("✅ Staged %d module(s). Tell me where they go, e.g.: pathcraft chat \"update pathway 1 section 2 with the new content\"\n", len(state.Pending))
		}

		if err := store.Save(ctx, state); err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send an instruction or question to the pathway assistant",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		bot := buildAssistant(ctx, cfg)
		fmt.Println(bot.Handle(ctx, strings.Join(args, " "), state))

		if err := store.Save(ctx, state); err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search modules by relevance",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		query := strings.Join(args, " ")
		hits := search.Run(query, state.Pathways.Current)
		if len(hits) == 0 {
			fmt.Printf("🔍 No modules match %q.\n", query)
			return
		}
		fmt.Printf("🔍 %d result(s) for %q:\n", len(hits), query)
		for i, h := range hits {
			fmt.Printf("%d. %s — Module %d.%d: %s (score %d)\n",
				i+1, h.Section, sectionOrdinal(state.Pathways.Current, h.Section), h.LocalNumber, h.Module.Title, h.Score)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the addressable pathway structure",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		set := state.Pathways
		fmt.Printf("📚 %s — %d section(s), %d module(s)\n\n",
			set.Current.Name, len(set.Current.Sections), set.Current.ModuleCount())
		fmt.Print(pathway.ReferenceHelp(set.Current))
		if len(set.Past) > 0 {
			fmt.Printf("Past pathways: %s\n", set.AvailablePathways())
		}
		if len(state.Pending) > 0 {
			fmt.Printf("📦 %d staged module(s) waiting for a target.\n", len(state.Pending))
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the pathway set as schema-validated JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		if err := pathway.SaveDocument(args[0], state.Pathways); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("💾 Exported pathway set to %s\n", args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a pathway set from a JSON export",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		store, state := openSession(ctx, cfg)
		defer store.Close()

		set, err := pathway.LoadDocument(args[0])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		state.Pathways = set
		if err := store.Save(ctx, state); err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
		fmt.Printf("✅ Imported pathway set from %s (%d modules)\n", args[0], set.Current.ModuleCount())
	},
}

func sectionOrdinal(p *pathway.Pathway, title string) int {
	for i, sec := range p.Sections {
		if sec.Title == title {
			return i + 1
		}
	}
	return 0
}
