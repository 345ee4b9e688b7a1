package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/n14asm/assembler/assemble"
	"github.com/n14asm/assembler/config"
	"github.com/n14asm/assembler/emit"
	"github.com/n14asm/assembler/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		verboseMode = flag.Bool("verbose", false, "Log each file's IC, DC and error count to stderr")
		inspect     = flag.Bool("inspect", false, "Open the read-only TUI inspector on the first successfully assembled file")
		configPath  = flag.String("config", "", "Path to an assembler.toml config file (default: platform config dir)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("n14asm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "n14asm: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "n14asm: ", 0)

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "n14asm: no input files")
		printHelp()
		os.Exit(1)
	}

	limits := cfg.AssembleLimits()

	results := make([]*fileResult, len(args))
	var wg sync.WaitGroup
	for i, base := range args {
		wg.Add(1)
		go func(i int, base string) {
			defer wg.Done()
			results[i] = assembleOne(base, cfg.Output.Extension, limits, *verboseMode, logger)
		}(i, base)
	}
	wg.Wait()

	allOK := true
	var firstOK *fileResult
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "n14asm: %s: %v\n", r.base, r.err)
			allOK = false
			continue
		}
		if r.ctx.Errors.Failed() {
			fmt.Fprint(os.Stderr, r.ctx.Errors.String())
			allOK = false
			continue
		}
		if firstOK == nil {
			firstOK = r
		}
	}

	if *inspect && firstOK != nil {
		if err := tui.Run(firstOK.ctx); err != nil {
			fmt.Fprintf(os.Stderr, "n14asm: inspector: %v\n", err)
		}
	}

	if !allOK {
		os.Exit(1)
	}
}

// fileResult is one input file's assembly outcome, gathered by its
// goroutine and consumed sequentially once every worker has finished -
// every per-file data structure lives entirely inside ctx, so no locking
// is needed within a single file's worker.
type fileResult struct {
	base string
	ctx  *assemble.Context
	err  error
}

// assembleOne reads, assembles, and (on success) emits the three
// artifacts for one named input file. It never touches any other file's
// state, so the caller may run many of these concurrently.
func assembleOne(base, ext string, limits assemble.Limits, verbose bool, logger *log.Logger) *fileResult {
	path := base + ext
	src, err := os.ReadFile(path) // #nosec G304 -- user-supplied assembly source
	if err != nil {
		return &fileResult{base: base, err: fmt.Errorf("cannot read %s: %w", path, err)}
	}

	ctx := assemble.File(path, string(src), limits)
	if verbose {
		logger.Printf("%s: IC=%d DC=%d errors=%d", path, ctx.Image.IC(), ctx.Image.DC(), len(ctx.Errors.Errors))
	}

	if ctx.Errors.Failed() {
		return &fileResult{base: base, ctx: ctx}
	}

	if err := writeArtifacts(base, ctx); err != nil {
		return &fileResult{base: base, ctx: ctx, err: err}
	}

	return &fileResult{base: base, ctx: ctx}
}

// writeArtifacts creates base.ob unconditionally, and base.ent/base.ext
// only when they would carry at least one line (spec.md §4.L).
func writeArtifacts(base string, ctx *assemble.Context) error {
	obFile, err := os.Create(base + ".ob") // #nosec G304 -- user-supplied output basename
	if err != nil {
		return fmt.Errorf("cannot create %s.ob: %w", base, err)
	}
	defer obFile.Close()
	if err := emit.Object(obFile, ctx.Image); err != nil {
		return fmt.Errorf("cannot write %s.ob: %w", base, err)
	}

	if emit.HasEntries(ctx.Symbols) {
		entFile, err := os.Create(base + ".ent") // #nosec G304 -- user-supplied output basename
		if err != nil {
			return fmt.Errorf("cannot create %s.ent: %w", base, err)
		}
		defer entFile.Close()
		if err := emit.Entries(entFile, ctx.Symbols); err != nil {
			return fmt.Errorf("cannot write %s.ent: %w", base, err)
		}
	}

	if len(ctx.Externs.All()) > 0 {
		extFile, err := os.Create(base + ".ext") // #nosec G304 -- user-supplied output basename
		if err != nil {
			return fmt.Errorf("cannot create %s.ext: %w", base, err)
		}
		defer extFile.Close()
		if err := emit.Externs(extFile, &ctx.Externs); err != nil {
			return fmt.Errorf("cannot write %s.ext: %w", base, err)
		}
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func printHelp() {
	fmt.Println(strings.TrimSpace(`
n14asm - two-pass assembler for the 14-bit teaching machine

Usage:
  n14asm FILE1 [FILE2 ...]

Each FILE is given without extension; the assembler looks for FILE.as and,
on success, writes FILE.ob (always), FILE.ent (if any .entry symbol was
declared), and FILE.ext (if any external symbol was referenced).

Flags:
`))
	flag.PrintDefaults()
}
