/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the MCQ quality-control HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/mcqqc/dispatch"
	"chainguard.dev/mcqqc/evaluator"
	"chainguard.dev/mcqqc/evaluator/retry"
	"chainguard.dev/mcqqc/pipeline"
	"chainguard.dev/mcqqc/rubric"
	"chainguard.dev/mcqqc/rubric/gcsprofiles"
	"chainguard.dev/mcqqc/server"
	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/chainguard-dev/terraform-infra-common/pkg/httpmetrics"
	"github.com/chainguard-dev/terraform-infra-common/pkg/profiler"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
	"google.golang.org/api/option"
)

type config struct {
	Port        int      `env:"PORT,default=8000"`
	MetricsPort int      `env:"METRICS_PORT,default=2112"`
	CORSOrigins []string `env:"CORS_ORIGINS,default=*"`

	Profile       string `env:"QC_PROFILE,default=general"`
	ProfileDir    string `env:"QC_PROFILE_DIR"`
	ProfileBucket string `env:"QC_PROFILE_BUCKET"`
	ProfilePrefix string `env:"QC_PROFILE_PREFIX"`
	Concurrency   int    `env:"QC_CONCURRENCY,default=10"`
	MaxInflight   int64  `env:"QC_MAX_INFLIGHT,default=0"`

	Eval evalConfig `env:", prefix=EVAL_"`
}

type evalConfig struct {
	Model         string        `env:"MODEL,default=claude-3-7-sonnet-20250219"`
	APIKey        string        `env:"API_KEY"`
	BaseURL       string        `env:"BASE_URL"`
	MaxTokens     int64         `env:"MAX_TOKENS,default=8192"`
	Temperature   float64       `env:"TEMPERATURE,default=0.2"`
	Timeout       time.Duration `env:"TIMEOUT,default=0s"`
	MaxRetries    int           `env:"MAX_RETRIES,default=0"`
	UseVertex     bool          `env:"USE_VERTEX,default=false"`
	VertexProject string        `env:"VERTEX_PROJECT"`
	VertexRegion  string        `env:"VERTEX_REGION,default=us-east5"`
}

// resolveVertexProject fills in the Vertex project from the GCP metadata
// server when Vertex is requested without an explicit project.
func (c *evalConfig) resolveVertexProject(ctx context.Context) error {
	if !c.UseVertex || c.VertexProject != "" {
		return nil
	}
	if !metadata.OnGCE() {
		return errors.New("EVAL_USE_VERTEX is set but EVAL_VERTEX_PROJECT is empty and no metadata server is available")
	}
	project, err := metadata.ProjectIDWithContext(ctx)
	if err != nil {
		return fmt.Errorf("detecting project ID: %w", err)
	}
	clog.FromContext(ctx).With("project_id", project).Info("Detected Google Cloud project")
	c.VertexProject = project
	return nil
}

func (c evalConfig) options() []evaluator.Option {
	rc := retry.DefaultConfig()
	rc.MaxRetries = c.MaxRetries
	return []evaluator.Option{
		evaluator.WithAPIKey(c.APIKey),
		evaluator.WithBaseURL(c.BaseURL),
		evaluator.WithVertex(c.VertexProject, c.VertexRegion),
		evaluator.WithMaxTokens(c.MaxTokens),
		evaluator.WithTemperature(c.Temperature),
		evaluator.WithTimeout(c.Timeout),
		evaluator.WithRetryConfig(rc),
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go httpmetrics.ScrapeDiskUsage(ctx)
	profiler.SetupProfiler()
	defer httpmetrics.SetupTracer(ctx)()

	if err := loadDotEnv(); err != nil {
		clog.FatalContextf(ctx, "loading env file: %v", err)
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	reg, err := rubric.LoadRegistry(cfg.ProfileDir)
	if err != nil {
		clog.FatalContextf(ctx, "loading profiles: %v", err)
	}
	if cfg.ProfileBucket != "" {
		gcs, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadOnly))
		if err != nil {
			clog.FatalContextf(ctx, "creating storage client: %v", err)
		}
		if err := gcsprofiles.Load(ctx, gcs, cfg.ProfileBucket, cfg.ProfilePrefix, reg); err != nil {
			clog.FatalContextf(ctx, "loading profiles from bucket: %v", err)
		}
		_ = gcs.Close()
	}
	if _, err := reg.Get(cfg.Profile); err != nil {
		clog.FatalContextf(ctx, "default profile: %v", err)
	}

	if err := cfg.Eval.resolveVertexProject(ctx); err != nil {
		clog.FatalContextf(ctx, "resolving Vertex project: %v", err)
	}
	ev, err := evaluator.New(ctx, cfg.Eval.Model, cfg.Eval.options()...)
	if err != nil {
		clog.FatalContextf(ctx, "creating evaluator: %v", err)
	}

	d, err := dispatch.New(ev,
		dispatch.WithConcurrency(cfg.Concurrency),
		dispatch.WithMaxInflight(cfg.MaxInflight),
	)
	if err != nil {
		clog.FatalContextf(ctx, "creating dispatcher: %v", err)
	}

	p, err := pipeline.New(reg, d)
	if err != nil {
		clog.FatalContextf(ctx, "creating pipeline: %v", err)
	}

	go serveMetrics(ctx, cfg.MetricsPort)

	srv := server.New(p, server.Config{
		Port:           fmt.Sprint(cfg.Port),
		CORSOrigins:    cfg.CORSOrigins,
		DefaultProfile: cfg.Profile,
	})

	clog.InfoContextf(ctx, "Starting MCQ QC service on port %d with model %s (profile=%s)", cfg.Port, cfg.Eval.Model, cfg.Profile)
	if err := srv.Start(ctx); err != nil {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}

// loadDotEnv loads ENV_PATH (default .env) if it exists. Variables already
// set in the environment win.
func loadDotEnv() error {
	path := os.Getenv("ENV_PATH")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.WithoutCancel(ctx))
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.ErrorContextf(ctx, "metrics server failed: %v", err)
	}
}
