// Package export copies the files of a source directory that match an
// extension filter into a destination directory, never overwriting anything
// already there.
package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/internal/platform"
	"github.com/sdejongh/exporter/pkg/compare"
	"github.com/sdejongh/exporter/pkg/filter"
	"github.com/sdejongh/exporter/pkg/logging"
	"github.com/sdejongh/exporter/pkg/models"
	"github.com/sdejongh/exporter/pkg/ratelimit"
	"github.com/sdejongh/exporter/pkg/storage"
)

// DefaultMaxRenameAttempts bounds token regeneration for one candidate
const DefaultMaxRenameAttempts = 8

// Options configures a Reconciler. Zero values select the defaults.
type Options struct {
	// Filter selects candidates; nil means the default extensions
	Filter *filter.Filter
	// Comparator decides duplicates; nil means size comparison
	Comparator compare.Comparator
	Logger     logging.Logger
	Observer   Observer
	// Limiter throttles copies; nil means unlimited
	Limiter           *ratelimit.Limiter
	MaxRenameAttempts int
	Token             TokenFunc
	// LockDir holds destination lock files; empty disables locking
	LockDir string
	Now     func() time.Time

	// OpenSource and OpenDestination open the storage of a resolved
	// directory; nil means the local filesystem. A dry run must not create
	// the destination.
	OpenSource      func(dir string) (storage.Backend, error)
	OpenDestination func(dir string, dryRun bool) (storage.Backend, error)
}

// Reconciler runs exports. It holds no per-run state and may be reused.
type Reconciler struct {
	opts Options
}

// New creates a reconciler, filling in defaults for unset options
func New(opts Options) *Reconciler {
	if opts.Filter == nil {
		opts.Filter, _ = filter.New(nil, nil)
	}
	if opts.Comparator == nil {
		opts.Comparator = compare.NewSizeComparator()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.MaxRenameAttempts < 1 {
		opts.MaxRenameAttempts = DefaultMaxRenameAttempts
	}
	if opts.Token == nil {
		opts.Token = RandomToken
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenSource == nil {
		opts.OpenSource = openSource
	}
	if opts.OpenDestination == nil {
		opts.OpenDestination = openDestination
	}
	return &Reconciler{opts: opts}
}

// run carries the state of a single Run call
type run struct {
	*Reconciler

	req    models.ExportRequest
	logger logging.Logger
	source storage.Backend
	dest   storage.Backend

	// planned holds destination names decided earlier in this run, so a
	// dry run never reports two candidates landing on the same path
	planned map[string]bool
}

// Run exports req.SourceDir into req.DestDir.
//
// Setup problems are returned as errors of kind ErrInvalidInput,
// ErrSourceNotFound or ErrDestinationUnavailable before any file is
// touched. Per-file failures are recorded in the summary and never stop the
// run. If ctx is cancelled between two candidates, the partial summary is
// returned with status cancelled together with ctx.Err().
func (r *Reconciler) Run(ctx context.Context, req models.ExportRequest) (*models.RunSummary, error) {
	logger := r.opts.Logger.WithFields(logging.Fields{"run_id": req.ID})

	sourceDir, destDir, err := r.resolve(req)
	if err != nil {
		logger.Error(ctx, "Invalid export request", err, nil)
		return nil, err
	}
	req.SourceDir, req.DestDir = sourceDir, destDir

	source, err := r.opts.OpenSource(sourceDir)
	if err != nil {
		err = withKind(ErrSourceNotFound, sourceDir, err)
		logger.Error(ctx, "Source directory not found", err, logging.Fields{"source": sourceDir})
		return nil, err
	}
	defer source.Close()

	dest, err := r.opts.OpenDestination(destDir, req.DryRun)
	if err != nil {
		err = withKind(ErrDestinationUnavailable, destDir, err)
		logger.Error(ctx, "Destination directory unavailable", err, logging.Fields{"dest": destDir})
		return nil, err
	}
	defer dest.Close()

	if !req.DryRun && r.opts.LockDir != "" {
		var fl *flock.Flock
		fl, err = acquireLock(r.opts.LockDir, destDir)
		if err != nil {
			err = newError(ErrDestinationUnavailable, destDir, err)
			logger.Error(ctx, "Destination directory unavailable", err, logging.Fields{"dest": destDir})
			return nil, err
		}
		defer fl.Unlock()
	}

	x := &run{
		Reconciler: r,
		req:        req,
		logger:     logger,
		source:     source,
		dest:       dest,
		planned:    make(map[string]bool),
	}
	return x.execute(ctx)
}

// resolve checks the request and returns absolute source and destination paths
func (r *Reconciler) resolve(req models.ExportRequest) (string, string, error) {
	if err := req.Validate(); err != nil {
		return "", "", newError(ErrInvalidInput, "", err)
	}

	sourceDir, err := platform.Resolve(req.SourceDir)
	if err != nil {
		return "", "", newError(ErrInvalidInput, req.SourceDir, err)
	}
	destDir, err := platform.Resolve(req.DestDir)
	if err != nil {
		return "", "", newError(ErrInvalidInput, req.DestDir, err)
	}

	if platform.SamePath(sourceDir, destDir) {
		return "", "", newError(ErrInvalidInput, destDir, errors.New("source and destination are the same directory"))
	}
	if platform.IsNested(sourceDir, destDir) || platform.IsNested(destDir, sourceDir) {
		return "", "", newError(ErrInvalidInput, destDir, errors.New("source and destination cannot be nested"))
	}

	return sourceDir, destDir, nil
}

func openSource(dir string) (storage.Backend, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, newError(ErrSourceNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, newError(ErrSourceNotFound, dir, errors.New("not a directory"))
	}

	source, err := storage.NewLocal(dir)
	if err != nil {
		return nil, newError(ErrSourceNotFound, dir, err)
	}
	return source, nil
}

// openDestination creates the destination unless this is a dry run, in which
// case a missing destination is treated as empty
func openDestination(dir string, dryRun bool) (storage.Backend, error) {
	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, newError(ErrDestinationUnavailable, dir, err)
		}
	}

	dest, err := storage.NewLocal(dir, storage.AllowMissing())
	if err != nil {
		return nil, newError(ErrDestinationUnavailable, dir, err)
	}
	return dest, nil
}

func (x *run) execute(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:      x.req.ID,
		SourcePath: x.source.Root(),
		DestPath:   x.dest.Root(),
		DryRun:     x.req.DryRun,
		StartTime:  x.opts.Now(),
	}

	candidates, err := x.enumerate(ctx)
	if err != nil {
		x.logger.Error(ctx, "Failed to list source directory", err, logging.Fields{"source": summary.SourcePath})
		return nil, err
	}

	x.logger.Info(ctx, "Starting export", logging.Fields{
		"source":     summary.SourcePath,
		"dest":       summary.DestPath,
		"dry_run":    summary.DryRun,
		"candidates": len(candidates),
		"extensions": x.opts.Filter.Extensions.Extensions(),
		"duplicate":  x.opts.Comparator.Name(),
	})
	x.opts.Observer.Started(len(candidates), summary.DryRun)

	var runErr error
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			summary.Status = models.StatusCancelled
			runErr = err
			x.logger.Warn(ctx, "Export cancelled", logging.Fields{
				"processed": i,
				"remaining": len(candidates) - i,
			})
			break
		}

		outcome := x.process(ctx, &candidates[i])
		summary.Record(outcome)
		x.logOutcome(ctx, outcome)
		x.opts.Observer.Processed(i+1, outcome)
	}

	summary.Finish(x.opts.Now())

	x.logger.Info(ctx, "Export completed", logging.Fields{
		"status":    summary.Status,
		"copied":    summary.Copied,
		"simulated": summary.Simulated,
		"skipped":   summary.Skipped,
		"errors":    summary.Errors,
		"renamed":   summary.Renamed,
		"bytes":     summary.BytesCopied,
		"duration":  summary.Duration().String(),
	})
	x.opts.Observer.Finished(summary)

	return summary, runErr
}

// enumerate returns the regular files of the source accepted by the filter,
// in directory listing order
func (x *run) enumerate(ctx context.Context) ([]models.FileCandidate, error) {
	entries, err := x.source.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newError(ErrSourceNotFound, x.source.Root(), err)
	}

	candidates := make([]models.FileCandidate, 0, len(entries))
	for _, e := range entries {
		if !e.IsRegular || !x.opts.Filter.Accept(e.Name) {
			continue
		}
		candidates = append(candidates, models.FileCandidate{
			Name:       e.Name,
			SourcePath: e.Path,
			Size:       uint64(e.Size),
			ModTime:    e.ModTime,
			Mode:       os.FileMode(e.Permissions),
		})
	}
	return candidates, nil
}

// process drives one candidate to its outcome
func (x *run) process(ctx context.Context, c *models.FileCandidate) models.Outcome {
	start := x.opts.Now()
	outcome := models.Outcome{Candidate: c}
	finish := func(kind models.OutcomeKind, reason string, err error) models.Outcome {
		outcome.Kind = kind
		outcome.Reason = reason
		outcome.Err = err
		outcome.Timestamp = x.opts.Now()
		outcome.Duration = outcome.Timestamp.Sub(start)
		return outcome
	}

	reader, err := x.source.Open(ctx, c.Name)
	if err != nil {
		return finish(models.OutcomeSkippedUnreadable, "source file cannot be read", newError(ErrFileUnreadable, c.SourcePath, err))
	}
	defer reader.Close()

	// Renames for this candidate share one attempt budget
	var tries int

	target, reason, err := x.resolveTarget(ctx, c, &tries)
	if err != nil {
		return finish(models.OutcomeError, "no destination name available", err)
	}
	if target == "" {
		return finish(models.OutcomeSkippedDuplicate, reason, nil)
	}
	outcome.Renamed = target != c.Name

	if x.req.DryRun {
		x.planned[target] = true
		outcome.DestPath = filepath.Join(x.dest.Root(), target)
		return finish(models.OutcomeSimulated, reason, nil)
	}

	written, target, err := x.copy(ctx, c, reader, target, &tries)
	outcome.DestPath = filepath.Join(x.dest.Root(), target)
	outcome.BytesCopied = written
	outcome.Renamed = target != c.Name
	if err != nil {
		outcome.BytesCopied = 0
		return finish(models.OutcomeError, "copy failed", err)
	}
	x.planned[target] = true
	return finish(models.OutcomeCopied, reason, nil)
}

// resolveTarget returns the destination name for c, or "" when the
// destination already holds a duplicate of it
func (x *run) resolveTarget(ctx context.Context, c *models.FileCandidate, tries *int) (string, string, error) {
	if x.planned[c.Name] {
		name, err := x.disambiguate(ctx, c, tries)
		return name, "name taken earlier in this run", err
	}

	exists, err := x.dest.Exists(ctx, c.Name)
	if err != nil {
		return "", "", newError(ErrCopyFailed, filepath.Join(x.dest.Root(), c.Name), err)
	}
	if !exists {
		return c.Name, "new file", nil
	}

	cmp, err := x.opts.Comparator.Compare(ctx, x.source, x.dest, c.Name, c.Name)
	if err != nil {
		// Not provably a duplicate, so keep both
		x.logger.Warn(ctx, "Could not compare with existing file", logging.Fields{
			"file":  c.Name,
			"error": err.Error(),
		})
	} else if cmp.Result == compare.Same {
		return "", "duplicate: " + cmp.Reason, nil
	}

	name, err := x.disambiguate(ctx, c, tries)
	reason := "name conflict"
	if cmp != nil && cmp.Reason != "" {
		reason += ": " + cmp.Reason
	}
	return name, reason, err
}

// disambiguate generates base_<token>.ext until a free name is found,
// giving up once tries reaches MaxRenameAttempts
func (x *run) disambiguate(ctx context.Context, c *models.FileCandidate, tries *int) (string, error) {
	for *tries < x.opts.MaxRenameAttempts {
		*tries++
		name := disambiguatedName(c.Base(), c.Ext(), x.opts.Token())
		if x.planned[name] {
			continue
		}
		exists, err := x.dest.Exists(ctx, name)
		if err != nil {
			return "", newError(ErrCopyFailed, filepath.Join(x.dest.Root(), name), err)
		}
		if !exists {
			return name, nil
		}
	}

	return "", newError(ErrCopyFailed, c.SourcePath, errors.Errorf("%w after %d attempts", ErrRenameExhausted, x.opts.MaxRenameAttempts))
}

// copy writes the candidate under target. If target was taken after it was
// chosen, a new disambiguated name is tried; Create never overwrites.
func (x *run) copy(ctx context.Context, c *models.FileCandidate, reader io.ReadCloser, target string, tries *int) (int64, string, error) {
	src := ratelimit.Wrap(ctx, reader, x.opts.Limiter)
	meta := &storage.FileInfo{
		ModTime:     c.ModTime,
		Permissions: uint32(c.Mode.Perm()),
	}

	for {
		written, err := x.dest.Create(ctx, target, src, int64(c.Size), meta)
		if err == nil {
			return written, target, nil
		}
		if !errors.Is(err, storage.ErrExists) {
			return written, target, newError(ErrCopyFailed, filepath.Join(x.dest.Root(), target), err)
		}

		x.logger.Debug(ctx, "Destination name taken during copy", logging.Fields{
			"file":   c.Name,
			"target": target,
		})
		next, err := x.disambiguate(ctx, c, tries)
		if err != nil {
			return 0, target, err
		}
		target = next
	}
}

func (x *run) logOutcome(ctx context.Context, o models.Outcome) {
	fields := logging.Fields{
		"file":   o.Candidate.Name,
		"reason": o.Reason,
	}
	if o.DestPath != "" {
		fields["dest"] = o.DestPath
	}
	if o.Renamed {
		fields["renamed"] = true
	}

	switch o.Kind {
	case models.OutcomeCopied:
		fields["bytes"] = o.BytesCopied
		x.logger.Info(ctx, "File copied", fields)
	case models.OutcomeSimulated:
		x.logger.Info(ctx, "Would copy file (dry run)", fields)
	case models.OutcomeSkippedDuplicate:
		x.logger.Info(ctx, "Skipped duplicate", fields)
	case models.OutcomeSkippedUnreadable:
		fields["error"] = o.ErrorText()
		x.logger.Warn(ctx, "Skipped unreadable file", fields)
	case models.OutcomeError:
		x.logger.Error(ctx, "Failed to copy file", o.Err, fields)
	}
}
