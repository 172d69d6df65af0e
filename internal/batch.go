package internal

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/gofrs/uuid/v5"
	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/png/stage"
	"github.com/rm-hull/image-resampler/internal/resample"
)

const lockFileName = ".resampler.lock"

var ErrLocked = errors.New("output directory is locked by another batch")

// inputExtensions are the file types picked up from the input directory.
var inputExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

func IsImageFile(name string) bool {
	return inputExtensions[strings.ToLower(filepath.Ext(name))]
}

type BatchOptions struct {
	InputDir  string
	OutputDir string
	PoolSize  int
	Width     int
	Height    int
	Filter    resample.Filter
	BlurSigma float64

	// per resizer
	KernelWorkers int
	ScratchLimit  int
	MaxPixels     int
}

type Job struct {
	Id     uuid.UUID
	Source string
	Target string
}

func NewJob(source, outputDir string) Job {
	return Job{
		Id:     uuid.Must(uuid.NewV4()),
		Source: source,
		Target: TargetPath(source, outputDir),
	}
}

// TargetPath keeps the base name; formats that cannot be written are saved as png.
func TargetPath(source, outputDir string) string {
	base := filepath.Base(source)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp":
		return filepath.Join(outputDir, base)
	default:
		return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+".png")
	}
}

type Processor struct {
	startTime time.Time
	endTime   time.Time
	opts      BatchOptions
	cache     *resample.PlanCache
	lock      *flock.Flock
	jobs      chan Job
	results   chan error
	files     []string
}

// NewBatchProcessor lists the images to process and locks the output
// directory so two batches cannot write the same files.
func NewBatchProcessor(opts BatchOptions, cache *resample.PlanCache) (*Processor, error) {
	if opts.PoolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(opts.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output directory: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	files, err := listImages(opts.InputDir)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	log.Printf("Input directory %s contains %d images", opts.InputDir, len(files))

	if cache == nil {
		cache = resample.NewPlanCache(64)
	}
	return &Processor{
		startTime: startTime,
		opts:      opts,
		cache:     cache,
		lock:      lock,
		jobs:      make(chan Job),
		results:   make(chan error),
		files:     files,
	}, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (p *Processor) Files() []string {
	return p.files
}

// DispatchJobs sends every listed file to the workers, then closes the queue.
func (p *Processor) DispatchJobs() {
	go func() {
		for _, file := range p.files {
			p.jobs <- NewJob(file, p.opts.OutputDir)
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting resampling files with pool size: %d", p.opts.PoolSize)

	for i := range p.opts.PoolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	resizer := NewResizer(p.cache, p.opts.ScratchLimit, p.opts.KernelWorkers, p.opts.MaxPixels)
	for job := range p.jobs {
		err := ProcessJob(job, Pipeline(resizer, p.opts))
		if err != nil {
			err = fmt.Errorf("job %s (%s): %w", job.Id, job.Source, err)
		}
		p.results <- err
	}
	log.Printf("Worker %d finished (scratch=%d bytes)", i, resizer.ScratchBytes())
}

// Pipeline is the stage list applied to every image of a batch.
func Pipeline(r stage.Resampler, opts BatchOptions) []png.PipelineStage {
	stages := make([]png.PipelineStage, 0, 2)
	if opts.BlurSigma > 0 {
		stages = append(stages, &stage.GaussianBlurStage{Resampler: r, Sigma: opts.BlurSigma})
	}
	return append(stages, &stage.ResampleStage{
		Resampler: r,
		Width:     opts.Width,
		Height:    opts.Height,
		Filter:    opts.Filter,
	})
}

// ProcessJob decodes the source, runs the stages and writes the target via a
// temporary file. Targets newer than their source are skipped.
func ProcessJob(job Job, pipeline []png.PipelineStage) error {
	if upToDate(job.Source, job.Target) {
		return nil
	}

	in, err := os.Open(job.Source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	img, err := png.NewPngFromReader(in)
	if err != nil {
		return err
	}

	if err := img.Pipeline(pipeline...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	dir := filepath.Dir(job.Target)
	tmpFile, err := os.CreateTemp(dir, "resample-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := png.EncoderFor(job.Target)(tmpFile, img.Img); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), job.Target); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	return nil
}

func upToDate(source, target string) bool {
	t, err := os.Stat(target)
	if err != nil {
		return false
	}
	s, err := os.Stat(source)
	if err != nil {
		return false
	}
	return !t.ModTime().Before(s.ModTime())
}

func (p *Processor) Wait() []error {
	waitFor := len(p.files)
	log.Printf("Waiting for %d files to be resampled", waitFor)

	errors := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All files resampled in %s (errors=%d)", elapsed, len(errors))
	return errors
}

// Close releases the output directory lock.
func (p *Processor) Close() error {
	return p.lock.Unlock()
}

// RunBatch is one complete batch: list, resample, release the lock.
func RunBatch(opts BatchOptions, cache *resample.PlanCache) error {
	p, err := NewBatchProcessor(opts, cache)
	if err != nil {
		return err
	}
	defer func() {
		_ = p.Close()
	}()

	p.StartWorkers()
	p.DispatchJobs()
	if errs := p.Wait(); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
