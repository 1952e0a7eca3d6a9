package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	j "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/siegeai/shapeinfer/apispec"
	"github.com/siegeai/shapeinfer/infer"
	"github.com/siegeai/shapeinfer/jsonschema"
	"github.com/siegeai/shapeinfer/server"
	"github.com/siegeai/shapeinfer/shape"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	format   string
	parallel int
	serve    string
	maxBody  int64
	files    []string
}

func parseConfig(args []string) (*config, error) {
	_ = godotenv.Load()
	level := getEnv("SHAPEINFER_LOG", "info")
	if err := setupLogging(level); err != nil {
		return nil, fmt.Errorf("could not init logging: %w", err)
	}

	maxBody, err := strconv.ParseInt(getEnv("SHAPEINFER_MAX_BODY", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SHAPEINFER_MAX_BODY: %w", err)
	}

	fs := flag.NewFlagSet("shapeinfer", flag.ContinueOnError)
	format := fs.String("format", "json", "output format: json, yaml or openapi")
	parallel := fs.Int("parallel", 1, "number of goroutines used to merge samples")
	serve := fs.Bool("serve", false, "serve the HTTP API instead of reading samples")
	addr := fs.String("addr", getEnv("SHAPEINFER_ADDR", ":8080"), "address to serve on with -serve")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &config{
		format:   *format,
		parallel: *parallel,
		maxBody:  maxBody,
		files:    fs.Args(),
	}
	if *serve {
		cfg.serve = *addr
	}
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	if cfg.serve != "" {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return server.New(server.Config{MaxBodyBytes: cfg.maxBody}).ListenAndServe(ctx, cfg.serve)
	}

	ss, err := readSamples(cfg.files, stdin)
	if err != nil {
		return err
	}
	slog.Debug("read samples", "count", len(ss))

	bs, err := encode(cfg.format, infer.FoldParallel(ss, cfg.parallel))
	if err != nil {
		return err
	}
	_, err = stdout.Write(bs)
	return err
}

func readSamples(files []string, stdin io.Reader) ([]shape.Shape, error) {
	if len(files) == 0 {
		return infer.ReadSamples(stdin)
	}

	var res []shape.Shape
	for _, name := range files {
		bs, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		ss, err := infer.ParseSamples(bs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res = append(res, ss...)
	}
	return res, nil
}

var errUnknownFormat = errors.New("unknown output format")

func encode(format string, s shape.Shape) ([]byte, error) {
	var bs []byte
	var err error
	switch format {
	case "json":
		bs, err = jsonschema.MarshalIndent(jsonschema.Render(s), "    ")
	case "yaml":
		return jsonschema.MarshalYAML(jsonschema.Render(s))
	case "openapi":
		bs, err = j.MarshalIndent(apispec.Document("Inferred", "Sample", s), "", "    ")
	default:
		return nil, fmt.Errorf("%w %q", errUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

func setupLogging(level string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return err
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
