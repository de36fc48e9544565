// blastmap_server runs the casualty estimation engine behind a line-based
// command protocol on stdin/stdout. The UI process sends commands such as
// :TARGET:SET: and :COMPUTE: and receives JSON responses.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blastmap/engine/internal/cache"
	"github.com/blastmap/engine/internal/casualty"
	"github.com/blastmap/engine/internal/config"
	"github.com/blastmap/engine/internal/density"
	"github.com/blastmap/engine/internal/dispatcher"
	"github.com/blastmap/engine/internal/engine"
	"github.com/blastmap/engine/internal/influx"
	"github.com/blastmap/engine/internal/logging"
	"github.com/blastmap/engine/internal/overpass"
	"github.com/blastmap/engine/internal/storage/memory"
)

// Version can be set at build time via ldflags.
var Version = "0.1.0"

var sessionStart = time.Now()

func main() {
	configDir := flag.String("config", ".", "directory containing blastmap.cfg.json")
	demoMode := flag.Bool("demo", false, "run a canned scenario and exit")
	flag.Parse()

	logManager := logging.NewManager()
	defer logManager.Close()

	if err := config.Load(*configDir); err != nil {
		// Defaults cover everything; a missing config file is not fatal.
		fmt.Fprintf(os.Stderr, "config: %v, continuing with defaults\n", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, "blastmap_server", sessionStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	gelfAddr := ""
	if config.GetBool("graylog.enabled") {
		gelfAddr = config.GetString("graylog.address")
	}
	logManager.Setup(logFile, config.GetString("logLevel"), gelfAddr)
	logger := logManager.Logger()
	logger.Info("Starting blastmap server", "version", Version)

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var metrics *influx.Manager
	if config.GetBool("influx.enabled") {
		metrics = influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := metrics.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, compute metrics disabled", "error", err)
			metrics = nil
		} else {
			defer metrics.Close()
		}
	}

	gridCache := cache.NewTTL(config.CacheTTL())
	client := overpass.NewClient(config.GetString("overpass.endpoint"), config.OverpassTimeout(), logger)
	adapter := overpass.NewAdapter(client, gridCache, overpass.AdapterConfig{
		GridSize: config.GetInt("grid.size"),
		Synthetic: overpass.SyntheticConfig{
			Size:             config.GetInt("grid.syntheticSize"),
			MaxDensityPerKm2: config.GetFloat64("grid.maxDensityPerKm2"),
			Seed:             int64(config.GetInt("grid.syntheticSeed")),
		},
	}, logger)

	densitySvc := density.NewService(density.Config{
		DefaultUrbanDensity: config.GetFloat64("density.defaultUrban"),
		MinDensity:          config.GetFloat64("density.min"),
		MaxDensity:          config.GetFloat64("density.max"),
		MaxFetchRadiusKm:    config.GetFloat64("grid.maxRadiusKm"),
	}, adapter, logger)

	store := memory.New(memory.Config{
		OutputDir:      config.GetString("snapshots.outputDir"),
		MaxHistory:     config.GetInt("snapshots.maxHistory"),
		CompressOutput: config.GetBool("snapshots.compressOutput"),
	})
	if err := store.Init(); err != nil {
		logger.Error("Failed to initialize scenario store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	eng := engine.New(engine.Dependencies{
		Density:   densitySvc,
		Estimator: casualty.NewEstimator(logger),
		Zones:     config.ZoneTable(),
		Storage:   store,
		Metrics:   metrics,
		Logger:    logger,
		Debounce:  config.Debounce(),
	}, func(res engine.Result) {
		emitResult(os.Stdout, res)
	})
	defer eng.Close()

	if *demoMode {
		runDemo(eng, logger)
		return
	}

	disp, err := dispatcher.New(logging.NewEventLogger(zlog))
	if err != nil {
		logger.Error("Failed to create dispatcher", "error", err)
		os.Exit(1)
	}
	registerCommands(disp, eng, store)

	logger.Info("Ready", "debounce", config.Debounce())
	serve(disp, os.Stdin, os.Stdout, logger)
	logger.Info("Shutting down")
}

// serve reads pipe-separated commands line by line until EOF. Each line is
// "COMMAND|arg1|arg2|...".
func serve(disp *dispatcher.Dispatcher, in *os.File, out *os.File, logger *slog.Logger) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")

		result, err := disp.Dispatch(dispatcher.Event{
			Command:   parts[0],
			Args:      parts[1:],
			Timestamp: time.Now(),
		})
		if err != nil {
			writeResponse(out, map[string]any{"ok": false, "error": err.Error()})
			continue
		}
		writeResponse(out, map[string]any{"ok": true, "result": result})
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Input stream failed", "error", err)
	}
}

func writeResponse(out *os.File, payload map[string]any) {
	enc := json.NewEncoder(out)
	_ = enc.Encode(payload)
}

// emitResult publishes an asynchronous computation outcome on stdout in the
// same envelope the synchronous path uses.
func emitResult(out *os.File, res engine.Result) {
	if res.Err != nil {
		writeResponse(out, map[string]any{"ok": false, "event": "compute", "error": res.Err.Error()})
		return
	}
	writeResponse(out, map[string]any{"ok": true, "event": "compute", "result": computeSummary(res)})
}
