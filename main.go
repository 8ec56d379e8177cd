package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/bank-statement-processor/internal/api"
	"github.com/insightdelivered/bank-statement-processor/internal/config"
	"github.com/insightdelivered/bank-statement-processor/internal/extractor"
	"github.com/insightdelivered/bank-statement-processor/internal/logger"
	"github.com/insightdelivered/bank-statement-processor/internal/metrics"
	"github.com/insightdelivered/bank-statement-processor/internal/pipeline"
	"github.com/insightdelivered/bank-statement-processor/internal/writer"
)

const version = "2.0.0"

func main() {
	// CLI flags
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format extension)")
	formatFlag := flag.String("format", writer.FormatCSV, "Output format: csv, xlsx, json")
	headerFlag := flag.Bool("header", true, "Include statement metadata rows in CSV")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement PDF Processor
by Insight Delivered

Converts Banregio account statement PDFs into normalized transactions
(date, description, amount, direction, category).

Usage:
  bank-statement-processor [flags] <input.pdf> [input2.pdf ...]
  bank-statement-processor --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert to CSV next to the input
  bank-statement-processor estado-enero.pdf

  # Excel workbook with a custom path
  bank-statement-processor --format=xlsx --output=movimientos.xlsx estado-enero.pdf

  # Convert multiple files to JSON
  bank-statement-processor --format=json enero.pdf febrero.pdf marzo.pdf

  # Run the HTTP API (configured through the environment or .env)
  SERVER_PORT=9000 bank-statement-processor --serve

Endpoints:
  POST /api/process-pdf   {"pdf_data": "<base64>", "filename": "enero.pdf"}
  POST /api/convert       multipart field "file", optional format=csv
  GET  /api/health
  GET  /metrics
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("bank-statement-processor v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || (!*serveFlag && flag.NArg() == 0) {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Invalid configuration: %v\n", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	ext := extractor.New(
		extractor.WithPdftotext(cfg.Extraction.PdftotextFallback),
		extractor.WithLogger(log),
	)
	pipe := pipeline.New(ext, pipeline.WithLogger(log), pipeline.WithMetrics(m))

	if *serveFlag {
		if err := serve(cfg, pipe, m, log); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	w, err := writer.ForFormat(*formatFlag, *headerFlag)
	if err != nil {
		fatalf("%v\n", err)
	}

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fatalf("--output can only be used with a single input file\n")
	}

	// Process each input file
	for _, inputPath := range inputFiles {
		if err := processFile(pipe, w, inputPath, *outputFlag, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(pipe *pipeline.Pipeline, w writer.Writer, inputPath, outputPath, format string) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result := pipe.Process(data, filepath.Base(inputPath))
	if !result.Success {
		return fmt.Errorf("processing failed: %s", result.Error)
	}

	meta := result.Metadata
	fmt.Printf("  Extracted %d page(s) using %s extraction\n", meta.Pages, meta.ProcessingMethod)
	fmt.Printf("  Period: %s %d\n", meta.StatementPeriod.MonthName, meta.StatementPeriod.Year)
	fmt.Printf("  Found %d transaction(s)\n", meta.TotalTransactions)

	if meta.TotalTransactions == 0 {
		fmt.Println("  Warning: No transactions found. The PDF format may not match the expected statement layout.")
	}

	// Determine output path
	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + writer.Extension(format)
	}

	if err := writer.WriteToFile(w, outPath, result); err != nil {
		return fmt.Errorf("%s write failed: %w", strings.ToUpper(format), err)
	}

	fmt.Printf("  Output: %s\n", outPath)

	// Print summary
	s := writer.Summarize(result)
	fmt.Printf("  Credits: %s\n", writer.Display(s.Credits))
	fmt.Printf("  Debits:  %s\n", writer.Display(s.Debits))
	fmt.Printf("  Net:     %s\n", writer.Display(s.Net()))

	fmt.Println("  Done.")
	return nil
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(cfg *config.Config, pipe *pipeline.Pipeline, m *metrics.Metrics, log zerolog.Logger) error {
	opts := api.Options{
		BodyLimit:    cfg.Server.BodyLimit(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		Logger:       log,
	}
	if m != nil {
		opts.Metrics = m.Handler()
	}
	app := api.NewApp(api.NewHandler(pipe, version), opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr()).Str("version", version).Msg("server listening")
		errc <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
