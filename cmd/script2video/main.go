package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/composer"
	"github.com/ivlev/script2video/internal/config"
	"github.com/ivlev/script2video/internal/logging"
	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/renderer"
	"github.com/ivlev/script2video/internal/scorer"
	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/system"
	"github.com/ivlev/script2video/internal/timeline"
	"github.com/ivlev/script2video/internal/transition"
)

func main() {
	// Create the working directories if missing
	dirs := []string{"input/scripts", "materials", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	scriptPtr := flag.String("script", "", "Path to a script YAML (default: most recent file in input/scripts/)")
	materialsPtr := flag.String("materials", "", "Path to the local material library (default: materials/)")
	outputPtr := flag.String("output", "", "Path to the plan file (if empty, generated automatically in output/)")
	rulesPtr := flag.String("rules", "", "Path to a rule-set YAML overriding the built-in tables")
	minScorePtr := flag.Float64("min-score", 0, "Minimum acceptable candidate score (0 - use configured default)")
	workersPtr := flag.Int("workers", 0, "Candidate prefetch workers (0 - size from the host)")
	overridesPtr := flag.String("override", "", "Manual asset overrides, e.g. 2=intro.png,5=chart.pdf#page-3")
	widthPtr := flag.Int("width", 0, "Frame width for the filter graph")
	heightPtr := flag.Int("height", 0, "Frame height for the filter graph")
	fpsPtr := flag.Int("fps", 0, "FPS for the filter graph")
	presetPtr := flag.String("preset", "", "Frame preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	dryRunPtr := flag.Bool("dry-run", false, "Score candidates per section and print the ranking, no plan")
	coveragePtr := flag.Bool("coverage", false, "Print a material coverage report, no plan")
	previewPtr := flag.Bool("preview-transitions", false, "Print the resolved transition chain, no plan")
	filterPtr := flag.Bool("filter-graph", false, "Print the ffmpeg filter graph for the assembled plan")
	logFilePtr := flag.String("log-file", "", "Append JSON log lines to this file")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	if err := logging.Init(*verbosePtr, *logFilePtr); err != nil {
		log.Fatalf("[-] Logging error: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[-] Configuration error: %v", err)
	}
	applyFlags(&cfg, *materialsPtr, *rulesPtr, *minScorePtr, *workersPtr, *widthPtr, *heightPtr, *fpsPtr, *presetPtr)

	scriptPath := *scriptPtr
	if scriptPath == "" {
		latest, err := system.FindLatestScript("input/scripts")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a script YAML into input/scripts/", err)
		}
		scriptPath = latest
		fmt.Printf("[*] Selected script: %s\n", scriptPath)
	}

	doc, err := script.Load(scriptPath)
	if err != nil {
		log.Fatalf("[-] Script error: %v", err)
	}

	c, err := buildComposer(cfg)
	if err != nil {
		log.Fatalf("[-] Initialization error: %v", err)
	}

	workers := cfg.PrefetchWorkers
	if workers <= 0 {
		workers = system.PrefetchWorkers()
	}

	opts := &composer.Options{
		Title:           doc.Title,
		MinScore:        cfg.MinScore,
		PrefetchWorkers: workers,
		PlaceholderDir:  cfg.PlaceholderDir,
		ChannelURL:      cfg.ChannelURL,
		Overrides:       parseOverrides(*overridesPtr),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *previewPtr:
		decisions, err := c.PreviewTransitions(ctx, doc.Sections)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		for _, d := range decisions {
			fmt.Printf("[*] %d -> %d: %s (%.1fs) %s\n", d.FromIndex, d.ToIndex, d.Effect, d.Duration, d.Reason)
		}
		return

	case *dryRunPtr, *coveragePtr:
		ranked, err := c.DryRun(ctx, doc.Sections, opts)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		if *coveragePtr {
			printCoverage(composer.Coverage(ranked, opts.MinScore))
			return
		}
		printRanking(ranked)
		return
	}

	plan, err := c.Compose(ctx, doc.Sections, opts)
	if err != nil {
		log.Fatalf("[-] Composition error: %v", err)
	}

	for _, d := range plan.Deficiencies {
		fmt.Printf("[!] Section %d: %s\n", d.SectionIndex, d.Reason)
	}

	if *filterPtr {
		params := renderer.FrameParams{Width: cfg.Width, Height: cfg.Height, FPS: cfg.FPS}
		if _, ok := system.CheckFFmpeg(); !ok {
			fmt.Println("[!] ffmpeg not found; the filter graph has no renderer to consume it")
		}
		printFilterGraph(plan, params)
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		base := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
		stamp := time.Now().Format("2006-01-02_15-04-05")
		runID := uuid.NewString()[:8]
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s_%s.plan.yaml", base, stamp, runID))
	}

	if err := timeline.Write(plan, finalOutput); err != nil {
		log.Fatalf("[-] Plan write error: %v", err)
	}

	fmt.Printf("[+++] Done! %d sections, %.1fs total. Plan: %s\n",
		len(plan.Entries), plan.Duration(), finalOutput)
}

func applyFlags(cfg *config.Config, materials, rules string, minScore float64, workers, width, height, fps int, preset string) {
	if materials != "" {
		cfg.MaterialsDir = materials
	}
	if rules != "" {
		cfg.RulesPath = rules
	}
	if minScore > 0 {
		cfg.MinScore = minScore
	}
	if workers > 0 {
		cfg.PrefetchWorkers = workers
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if fps > 0 {
		cfg.FPS = fps
	}
	switch preset {
	case "16:9":
		cfg.Width, cfg.Height = 1280, 720
	case "9:16":
		cfg.Width, cfg.Height = 720, 1280
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	}
}

// buildComposer wires the decision core from configuration: rule tables,
// the material providers, and the optional semantic analyzer.
func buildComposer(cfg config.Config) (*composer.Composer, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	profOpts := rules.ProfilerOptions()
	if cfg.SemanticURL != "" {
		analyzer := profile.NewHTTPAnalyzer(cfg.SemanticURL, cfg.SemanticAPIKey)
		profOpts = append(profOpts, profile.WithAnalyzer(analyzer))
	}
	profiler := profile.NewProfiler(logging.NewLogger(), profOpts...)

	providers := []asset.Provider{}
	catalog, err := asset.NewCatalog(cfg.MaterialsDir, logging.NewLogger())
	if err != nil {
		return nil, fmt.Errorf("open material library: %w", err)
	}
	fmt.Printf("[*] Material library: %d assets in %s\n", catalog.Len(), cfg.MaterialsDir)
	providers = append(providers, catalog)

	if cfg.StockAPIKey != "" {
		providers = append(providers, asset.NewStockClient(cfg.StockAPIKey, logging.NewLogger()))
	}

	pool, err := asset.NewPool(providers...)
	if err != nil {
		return nil, err
	}

	pairs, durations := rules.TransitionTables()
	return composer.New(
		profiler,
		scorer.New(rules.ScorerWeights()),
		transition.NewResolver(pairs, durations),
		motion.NewGenerator(motion.DefaultBands()),
		pool,
		logging.NewLogger(),
	)
}

// parseOverrides turns "2=a.png,5=b.pdf#page-3" into an index->ID map.
func parseOverrides(s string) map[int]string {
	if s == "" {
		return nil
	}
	out := make(map[int]string)
	for _, pair := range strings.Split(s, ",") {
		idx, id, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil {
			log.Printf("[!] Ignoring override %q: bad section index", pair)
			continue
		}
		out[n] = id
	}
	return out
}

// printFilterGraph lists one input line per entry followed by the
// filter_complex body. The graph addresses inputs as [i:v], so chosen PDF
// pages are flattened to PNGs first and their file paths printed in place
// of the document.
func printFilterGraph(plan *timeline.Plan, params renderer.FrameParams) {
	pagesDir := filepath.Join("output", "pages")
	for i, e := range plan.Entries {
		if e.Asset == nil {
			fmt.Printf("[!] Input %d: no asset, feed a blank frame\n", i)
			continue
		}
		src := e.Asset.Path
		if strings.Contains(e.Asset.ID, "#page-") {
			os.MkdirAll(pagesDir, 0755)
			flat, err := asset.ExtractPDFPage(*e.Asset, pagesDir, 150)
			if err != nil {
				fmt.Printf("[!] Input %d: page render failed for %s: %v\n", i, e.Asset.ID, err)
				continue
			}
			src = flat
		}
		if src == "" {
			src = e.Asset.URL
		}
		fmt.Printf("[*] Input %d: %s\n", i, src)
	}
	fmt.Println(renderer.FilterGraph(plan, params))
}

func printRanking(ranked []timeline.Ranked) {
	for _, r := range ranked {
		fmt.Printf("[*] Section %d (%s): %d candidates\n", r.Section.Index, r.Section.Label, len(r.Candidates))
		for i, cand := range r.Candidates {
			if i >= 5 {
				fmt.Printf("      ... %d more\n", len(r.Candidates)-i)
				break
			}
			fmt.Printf("      %5.1f  %s\n", cand.Total, cand.Asset.ID)
		}
	}
}

func printCoverage(report composer.CoverageReport) {
	fmt.Printf("[*] Coverage: %.0f%% (%d full / %d partial / %d none of %d sections)\n",
		report.CoverageRate, report.FullyCovered, report.PartiallyCovered,
		report.NotCovered, report.TotalSections)
	for _, d := range report.Details {
		if d.Status != composer.CoverageFull {
			fmt.Printf("    section %d: %s (%d acceptable)\n", d.SectionIndex, d.Status, d.Acceptable)
		}
	}
}
