package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redtide/ConvertWithMoss/internal/config"
	"github.com/redtide/ConvertWithMoss/internal/convert"
	"github.com/redtide/ConvertWithMoss/internal/notify"
)

func main() {
	// Command line flags
	var (
		sourceFlag  = flag.String("source", "", "Folder with Kontakt instrument files, scanned recursively")
		destFlag    = flag.String("dest", "", "Destination folder for the converted instruments (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		creatorFlag = flag.String("creator", "", "Creator name used when none can be detected from the folders")
		analyzeFlag = flag.Bool("analyze", false, "Analyze the instruments without writing anything")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// CLI mode - require a source folder
	if *sourceFlag == "" && flag.NArg() == 0 {
		fmt.Println("nki2sfz - Convert Kontakt instruments to SFZ")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  nki2sfz -source <folder> [options]")
		fmt.Println("  nki2sfz <folder> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: nki2sfz-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *sourceFlag != "" {
		settings.SourceFolder = *sourceFlag
	} else {
		settings.SourceFolder = flag.Arg(0)
	}
	if *destFlag != "" {
		settings.DestinationFolder = *destFlag
	}
	if *creatorFlag != "" {
		settings.CreatorName = *creatorFlag
	}
	if *analyzeFlag {
		settings.AnalyzeOnly = true
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := convert.NewManager(settings, func(event notify.Event) {
		if event.Level == notify.LevelVerbose && !settings.Verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case notify.LevelError:
			prefix = "❌ "
		case notify.LevelWarning:
			prefix = "⚠️  "
		case notify.LevelSuccess:
			prefix = "✅ "
		case notify.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("🎹 ConvertWithMoss")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		os.Exit(1)
	}

	if len(manager.GetFiles()) == 0 {
		return
	}

	if settings.AnalyzeOnly {
		fmt.Println("\n🔍 Analyzing instruments...")
	} else {
		fmt.Println("\n📦 Converting instruments...")
	}
	fmt.Println()

	if err := manager.Start(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nConversion cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during conversion: %v\n", err)
		os.Exit(1)
	}

	converted, failed, total := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Converted %d/%d files\n", converted, total)
	if failed > 0 {
		fmt.Printf("   (%d failed)\n", failed)
	}
}
