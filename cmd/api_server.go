package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/image-resampler/internal"
	"github.com/rm-hull/image-resampler/internal/config"
	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/models"
	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/png/stage"
	"github.com/rm-hull/image-resampler/internal/resample"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(cfg *config.Config) {
	internal.ShowVersion()
	internal.UserInfo()
	internal.EnvironmentVars(config.EnvPrefix)

	srv, err := newServer(cfg, internal.NewImageClient(cfg.Server.UserAgent, cfg.Server.MaxUploadBytes))
	if err != nil {
		log.Fatal(err)
	}

	var sched gocron.Scheduler
	if cfg.Batch.Schedule != "" {
		opts, err := batchOptions(cfg)
		if err != nil {
			log.Fatal(err)
		}
		sched, err = internal.NewScheduler(opts, cfg.Batch.Schedule, srv.cache)
		if err != nil {
			log.Fatal(err)
		}
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if cfg.Server.Debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	srv.routes(r)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting HTTP API Server on port %d...", cfg.Server.Port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", cfg.Server.Port, err)
	}

	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Fatalf("failed to shutdown scheduler: %v", err)
		}
	}
}

type server struct {
	cfg      *config.Config
	filter   resample.Filter
	cache    *resample.PlanCache
	client   internal.ImageClient
	resizers sync.Pool
}

func newServer(cfg *config.Config, client internal.ImageClient) (*server, error) {
	filter, err := cfg.Resample.ParseFilter()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Server.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	s := &server{
		cfg:    cfg,
		filter: filter,
		cache:  resample.NewPlanCache(cfg.Resample.PlanCacheSize),
		client: client,
	}
	s.resizers.New = func() any {
		return internal.NewResizer(s.cache, cfg.Resample.ScratchLimit, cfg.Resample.Workers, cfg.Resample.MaxPixels)
	}
	return s, nil
}

func (s *server) routes(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.POST("/resample", s.resample)
	v1.POST("/plan", s.plan)
	v1.GET("/kernels", s.kernels)
	v1.Static("/images", s.cfg.Server.OutputDir)
}

func (s *server) resample(c *gin.Context) {
	var q models.ResampleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	filter := s.filter
	if q.Filter != "" {
		f, err := resample.ParseFilter(q.Filter)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		filter = f
	}

	body, err := s.source(c, q.Url)
	if err != nil {
		abort(c, http.StatusBadGateway, err)
		return
	}
	defer func() {
		_ = body.Close()
	}()

	img, err := png.NewPngFromReader(body)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	resizer := s.resizers.Get().(*internal.Resizer)
	defer s.resizers.Put(resizer)

	resize := &stage.ResampleStage{
		Resampler: resizer.WithContext(c.Request.Context()),
		Width:     q.Width,
		Height:    q.Height,
		Filter:    filter,
	}
	if err := img.Pipeline(resize); err != nil {
		abort(c, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := img.Write(&buf); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	if q.Save != "" {
		name := filepath.Base(q.Save)
		if filepath.Ext(name) != ".png" {
			name += ".png"
		}
		if err := os.WriteFile(filepath.Join(s.cfg.Server.OutputDir, name), buf.Bytes(), 0644); err != nil {
			abort(c, http.StatusInternalServerError, fmt.Errorf("failed to save %s: %w", name, err))
			return
		}
		c.Header("Location", "/v1/images/"+name)
	}

	c.Header("X-Resample-Filter", filter.String())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *server) source(c *gin.Context, url string) (io.ReadCloser, error) {
	if url != "" {
		return s.client.Fetch(url)
	}
	if s.cfg.Server.MaxUploadBytes > 0 {
		return http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadBytes), nil
	}
	return c.Request.Body, nil
}

func (s *server) plan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	if _, err := internal.LimitOutput(req.Shape, req.Params, s.cfg.Resample.MaxPixels); err != nil {
		abort(c, statusFor(err), err)
		return
	}

	r, err := s.cache.Requirements(req.Shape, req.Params)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, models.PlanResponse{
		OutputShape:  r.OutputShapes[0],
		ScratchSizes: r.ScratchSizes,
		ScratchBytes: r.ScratchSizes.Total(),
	})
}

func (s *server) kernels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kernels": resample.Supported()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, kernel.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, kernel.ErrAllocation):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: err.Error()})
}
