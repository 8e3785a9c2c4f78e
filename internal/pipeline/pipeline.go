// Package pipeline orchestrates a full install run: manifest verification,
// the two-phase rename/rewrite over every kit file, deterministic printing,
// and the final writes into the destination directory.
package pipeline

import (
	"context"
	stderrors "errors"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/uiforge/catalyze/internal/config"
	xerrors "github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/logging"
	"github.com/uiforge/catalyze/internal/manifest"
	"github.com/uiforge/catalyze/internal/transform"
	"github.com/uiforge/catalyze/internal/tsx"
	"github.com/uiforge/catalyze/internal/verify"
)

// RunOptions are the per-invocation switches.
type RunOptions struct {
	// DryRun computes and reports everything but writes nothing.
	DryRun bool
	// SkipVerify bypasses the manifest gate entirely.
	SkipVerify bool
	// Force proceeds past an invalid verification result.
	Force bool
}

// FileResult is the outcome for one kit file.
type FileResult struct {
	SourceName string
	DestName   string
	Output     []byte
	BackupPath string
	Err        error
}

// Result is the outcome of one run.
type Result struct {
	Verification *verify.Result
	Files        []FileResult
	RenameCount  int
	ChangeLog    []string
	Warnings     []string
}

// Failed reports whether any per-file outcome carries an error.
func (r *Result) Failed() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return true
		}
	}
	return false
}

// Pipeline wires configuration, the filesystem surface, and logging.
type Pipeline struct {
	cfg    *config.Config
	store  *files.Store
	logger logging.Logger
}

// New creates a pipeline.
func New(cfg *config.Config, store *files.Store, logger logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, logger: logger.WithComponent("pipeline")}
}

// parsedFile pairs a kit source file with its tree. Tree is nil for
// non-code files, which are installed under the prefixed name unchanged.
type parsedFile struct {
	name      string
	source    []byte
	tree      *tsx.File
	exportsIn int
}

// Run executes the install pipeline. Verification failures stop the run
// before any transform; per-file transform failures are collected so one
// bad file does not hide results for its siblings.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	result := &Result{}

	if opts.SkipVerify {
		p.logger.Warn(ctx, nil, "manifest verification skipped")
	} else {
		vres, err := p.verifyGate(ctx)
		if err != nil {
			return nil, err
		}
		result.Verification = vres
		if !vres.IsValid && !opts.Force {
			return result, vres.Error()
		}
	}

	parsed, parseErrs := p.parseSources(ctx)
	if len(parsed) == 0 {
		if parseErrs.HasErrors() {
			return result, parseErrs.Err()
		}
		return result, &xerrors.IOError{Op: "list", Path: p.cfg.Kit.SourceDir, NotFound: true}
	}

	tctx := transform.NewContext(transform.Options{
		Prefix:            p.cfg.Transform.Prefix,
		ExcludedModule:    p.cfg.Transform.ExcludedModule,
		ExcludedQualifier: p.cfg.Transform.ExcludedQualifier,
		GenericPropTypes:  p.cfg.Transform.GenericPropTypes,
	})

	// phase 1: the map must be complete across all files before any
	// rewrite runs, a sibling may reference a name renamed here
	op := logging.StartOperation(p.logger, "build rename map")
	for _, pf := range parsed {
		if pf.tree != nil {
			transform.BuildRenames(tctx, pf.name, pf.tree)
		}
	}
	op.End(ctx)
	p.logger.Info(ctx, "rename map built", "entries", tctx.RenameCount())

	// phase 2: per-file rewrites only read the map
	op = logging.StartOperation(p.logger, "rewrite files")
	result.Files = p.rewriteAll(tctx, parsed)
	op.End(ctx)

	for _, err := range parseErrs.Errors() {
		var pe *xerrors.ParseError
		if stderrors.As(err, &pe) {
			result.Files = append(result.Files, FileResult{SourceName: pe.File, Err: err})
		} else {
			result.Files = append(result.Files, FileResult{Err: err})
		}
	}

	result.RenameCount = tctx.RenameCount()
	result.ChangeLog = tctx.ChangeLog
	result.Warnings = tctx.Warnings

	if opts.DryRun {
		p.logger.Info(ctx, "dry run, skipping writes", "files", len(result.Files))
		return result, nil
	}
	if err := p.writeOutputs(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

func (p *Pipeline) verifyGate(ctx context.Context) (*verify.Result, error) {
	m, err := manifest.Load(p.store.Fs(), p.cfg.Kit.ManifestPath)
	if err != nil {
		return nil, err
	}
	vres, warnings, err := verify.Directory(p.store.Fs(), m, p.cfg.Kit.SourceDir, p.cfg.Kit.Version)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		p.logger.Warn(ctx, nil, w)
	}
	if !vres.IsValid {
		p.logger.Error(ctx, nil, "verification failed",
			"mismatched", len(vres.Mismatches), "missing", len(vres.Missing), "extra", len(vres.Extra))
	} else {
		p.logger.Info(ctx, "verification passed", "files", len(m.Files))
	}
	return &vres, nil
}

// parseSources reads every kit file and parses the code files. Parse
// failures are collected per file, not fatal for the batch.
func (p *Pipeline) parseSources(ctx context.Context) ([]parsedFile, *xerrors.ErrorCollector) {
	collector := xerrors.NewErrorCollector()

	names, err := p.store.List(p.cfg.Kit.SourceDir, p.cfg.Kit.Extensions...)
	if err != nil {
		collector.Add(err)
		return nil, collector
	}
	sort.Strings(names)

	var parsed []parsedFile
	for _, name := range names {
		data, err := p.store.Read(path.Join(p.cfg.Kit.SourceDir, name))
		if err != nil {
			collector.Add(err)
			continue
		}
		pf := parsedFile{name: name, source: data}
		if codeFile(name) {
			tree, err := tsx.Parse(string(data))
			if err != nil {
				collector.Add(&xerrors.ParseError{File: name, Err: err})
				p.logger.Warn(ctx, err, "skipping unparseable file", "file", name)
				continue
			}
			pf.tree = tree
			pf.exportsIn = transform.CountExports(tree)
		}
		parsed = append(parsed, pf)
	}
	return parsed, collector
}

func codeFile(name string) bool {
	return strings.HasSuffix(name, ".tsx") || strings.HasSuffix(name, ".ts")
}

// rewriteAll runs the five passes plus import rewrite for every file,
// fanning out across workers above a small threshold.
func (p *Pipeline) rewriteAll(tctx *transform.Context, parsed []parsedFile) []FileResult {
	results := make([]FileResult, len(parsed))

	workerCount := p.cfg.Install.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > 8 {
		workerCount = 8
	}

	if len(parsed) <= 1 || workerCount == 1 {
		for i, pf := range parsed {
			results[i] = p.rewriteOne(tctx, pf)
		}
		return results
	}

	jobs := make(chan int, len(parsed))
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.rewriteOne(tctx, parsed[i])
			}
		}()
	}
	for i := range parsed {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (p *Pipeline) rewriteOne(tctx *transform.Context, pf parsedFile) FileResult {
	res := FileResult{
		SourceName: pf.name,
		DestName:   transform.DestinationName(tctx, pf.name),
	}
	if pf.tree == nil {
		res.Output = pf.source
		return res
	}

	tree := transform.RewriteAll(tctx, pf.name, pf.tree)
	tree = transform.RewriteImportPaths(tctx, pf.name, tree)

	output := tsx.Print(tree)
	output = transform.CollapseDuplicateSpreads(tctx, pf.name, output)

	if err := transform.ValidateOutput(pf.name, output, pf.exportsIn, transform.CountExports(tree)); err != nil {
		res.Err = err
		return res
	}
	res.Output = []byte(output)
	return res
}

func (p *Pipeline) writeOutputs(ctx context.Context, result *Result) error {
	collector := xerrors.NewErrorCollector()
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.Err != nil || fr.Output == nil {
			continue
		}
		dest := path.Join(p.cfg.Install.DestDir, fr.DestName)
		if p.cfg.Install.Backup {
			backup, err := p.store.WriteWithBackup(dest, fr.Output)
			if err != nil {
				fr.Err = err
				collector.Add(err)
				continue
			}
			fr.BackupPath = backup
		} else if err := p.store.Write(dest, fr.Output); err != nil {
			fr.Err = err
			collector.Add(err)
			continue
		}
		p.logger.Debug(ctx, "wrote file", "dest", dest)
	}
	return collector.Err()
}
