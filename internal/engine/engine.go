package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/censor/internal/censor"
	"github.com/ivlev/censor/internal/config"
	"github.com/ivlev/censor/internal/imageio"
	"github.com/ivlev/censor/internal/logging"
	"github.com/ivlev/censor/internal/predict"
	"github.com/ivlev/censor/internal/source"
	"github.com/ivlev/censor/internal/system"
)

// Pipeline runs jobs one after another on the calling goroutine.
type Pipeline struct {
	Config   *config.Config
	Detector predict.Detector
	Logger   *zap.Logger
	Out      io.Writer

	predictTime time.Duration
}

func NewPipeline(cfg *config.Config, det predict.Detector, logger *zap.Logger, out io.Writer) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Config:   cfg,
		Detector: det,
		Logger:   logger,
		Out:      out,
	}
}

// Run processes jobs in order, printing "Saved: <path>" for every written
// output and a one-line diagnostic for a failed job. The first failure stops
// the run unless ContinueOnError is set; jobs after it are not attempted.
func (p *Pipeline) Run(ctx context.Context, jobs []source.Job) ([]Result, error) {
	start := time.Now()
	p.predictTime = 0

	results := make([]Result, 0, len(jobs))
	var firstErr error
	failedJobs := 0

	for _, job := range jobs {
		res := p.Process(ctx, job)
		results = append(results, res)

		for _, out := range res.Outputs {
			fmt.Fprintf(p.Out, "Saved: %s\n", out)
		}
		if res.Status == StatusFailed {
			fmt.Fprintf(p.Out, "%s: %v\n", res.Kind.Prefix(), res.Err)
			failedJobs++
			if firstErr == nil {
				firstErr = res.Error()
			}
			if !p.Config.ContinueOnError {
				break
			}
		}
	}

	if p.Config.ShowStats {
		p.printStats(results, failedJobs, time.Since(start))
	}

	if failedJobs == 0 {
		return results, nil
	}
	if p.Config.ContinueOnError && len(jobs) > 1 {
		return results, fmt.Errorf("%d of %d jobs failed, first: %w", failedJobs, len(jobs), firstErr)
	}
	return results, firstErr
}

// Process runs one job to completion: for every page, predict, map and
// censor each detection in service order, then save.
func (p *Pipeline) Process(ctx context.Context, job source.Job) Result {
	res := Result{Job: job}
	log := logging.WithJob(p.Logger, job.Input, 0)
	log.Info("processing", zap.String("output", job.Output))

	src, err := source.Open(job.Input, p.Config.DPI)
	if err != nil {
		return failed(res, KindRead, err)
	}
	defer src.Close()

	pages := src.PageCount()
	if pages == 0 {
		return failed(res, KindRead, errors.New("source has no pages"))
	}

	for i := 0; i < pages; i++ {
		output := job.Output
		pageLog := log
		if pages > 1 {
			output = source.PageOutputPath(job.Output, i)
			pageLog = logging.WithJob(p.Logger, job.Input, i+1)
		}

		regions, kind, err := p.processPage(ctx, src, i, output, pageLog)
		res.Regions += regions
		if err != nil {
			return failed(res, kind, err)
		}
		res.Outputs = append(res.Outputs, output)
	}

	res.Status = StatusSaved
	return res
}

func (p *Pipeline) processPage(ctx context.Context, src source.Source, index int, output string, log *zap.Logger) (int, Kind, error) {
	data, err := src.PageBytes(index)
	if err != nil {
		return 0, KindRead, err
	}

	started := time.Now()
	prediction, err := p.Detector.Predict(ctx, data)
	p.predictTime += time.Since(started)
	if err != nil {
		return 0, KindPrediction, err
	}
	log.Debug("prediction", zap.Int("detections", len(prediction.Payload)))

	img, err := src.DecodePage(index)
	if err != nil {
		return 0, KindRead, err
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	censored := 0
	for i, payload := range prediction.Payload {
		detection := payload.ImageObjectDetection
		if detection == nil {
			return censored, KindConversion, fmt.Errorf("%w: payload %d has no imageObjectDetection", censor.ErrMalformedVertex, i)
		}

		region, err := censor.MapVertices(width, height, detection.BoundingBox.NormalizedVertices)
		if err != nil {
			return censored, KindConversion, err
		}
		if err := censor.Apply(img, region); err != nil {
			return censored, KindCensor, err
		}
		censored++
		log.Debug("region censored",
			zap.Stringer("region", region),
			zap.String("label", payload.DisplayName),
			zap.Float64("score", detection.Score))
	}

	if err := imageio.SaveJPEG(img, output); err != nil {
		return censored, KindWrite, err
	}
	log.Info("saved", zap.String("output", output), zap.Int("regions", censored))
	return censored, KindNone, nil
}

func (p *Pipeline) printStats(results []Result, failedJobs int, total time.Duration) {
	regions := 0
	for _, r := range results {
		regions += r.Regions
	}

	host, err := system.Snapshot()
	if err != nil {
		p.Logger.Warn("host stats unavailable", zap.Error(err))
	}

	fmt.Fprint(p.Out, system.FormatReport(system.RunStats{
		BuildVersion: p.Config.BuildVersion,
		Jobs:         len(results),
		Failed:       failedJobs,
		Regions:      regions,
		Total:        total,
		Predict:      p.predictTime,
		Host:         host,
	}))
}
