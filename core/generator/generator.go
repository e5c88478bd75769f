package generator

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/config"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/models"
	"github.com/tristendillon/headersync/core/naming"
	"github.com/tristendillon/headersync/core/report"
	"github.com/tristendillon/headersync/core/reset"
	"github.com/tristendillon/headersync/core/scaffold"
	"github.com/tristendillon/headersync/core/translator"
	"github.com/tristendillon/headersync/core/walker"
)

type BindingGenerator struct {
	cfg        *config.Config
	fs         afero.Fs
	translator translator.Translator
	log        *logger.Logger
	Walker     walker.TreeWalker
}

func NewBindingGenerator(cfg *config.Config, fs afero.Fs, tr translator.Translator, log *logger.Logger) *BindingGenerator {
	return &BindingGenerator{
		cfg:        cfg,
		fs:         fs,
		translator: tr,
		log:        log,
		Walker:     walker.NewTreeWalker(fs, log),
	}
}

func (g *BindingGenerator) layout() scaffold.Layout {
	return scaffold.Layout{
		Root:                 g.cfg.OutputRoot,
		TopLevelDeclaration:  g.cfg.Naming.TopLevelDeclaration,
		DirectoryDeclaration: g.cfg.Naming.DirectoryDeclaration,
	}
}

// Generate wipes the output root, then converts every header under the
// source root in walk order. It returns the report even when a fatal error
// stops the run part way.
func (g *BindingGenerator) Generate(ctx context.Context) (*report.Report, error) {
	cfg := g.cfg
	rep := report.New(filepath.Base(cfg.OutputRoot))

	if cfg.Translator.HiddenTypes != nil {
		g.log.Debug("Hidden type regex: %s", translator.HiddenTypesPattern(cfg.Translator.HiddenTypes))
	}

	allow, err := reset.NewAllowList(cfg.OutputRoot, cfg.AllowListPaths()...)
	if err != nil {
		return rep, err
	}
	if err := reset.Reset(g.fs, cfg.OutputRoot, allow, g.log); err != nil {
		return rep, fmt.Errorf("failed to reset output root: %w", err)
	}
	if err := reset.ReplaceDeclaration(g.fs, cfg.TopLevelDeclarationPath(), g.log); err != nil {
		return rep, fmt.Errorf("failed to reset top-level declaration: %w", err)
	}

	files, err := g.Walker.Walk(cfg.SourceRoot)
	if err != nil {
		return rep, fmt.Errorf("failed to walk source root: %w", err)
	}

	namer := naming.NewNamer(cfg.Naming.ModuleExtension)
	registry := naming.NewRegistry(cfg.Naming.OnCollision, cfg.Naming.OnStemClash, g.log)
	converter := NewConverter(g.fs, g.layout(), namer, registry, g.translator, g.log)

	for _, file := range files {
		rep.Consider()

		if !cfg.IsHeader(file) {
			g.log.Debug("Skipping non-header file: %s", file)
			continue
		}
		g.log.Debug("Processing header: %s", file)

		task, err := models.NewConversionTask(cfg.SourceRoot, cfg.OutputRoot, file, namer.Derive)
		if err != nil {
			return rep, err
		}

		outcome, err := converter.Convert(ctx, task)
		if err != nil {
			return rep, fmt.Errorf("failed to convert %s: %w", task.SourceRel, err)
		}
		rep.Record(task, outcome)
	}

	g.logSummary(rep.Summarize())
	return rep, nil
}

// logSummary puts the summary into the run log; the console only shows it
// when verbose since the CLI prints it itself.
func (g *BindingGenerator) logSummary(s report.Summary) {
	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		g.log.Debug("%s", line)
	}
}

// Preview derives the module tree the next run would produce without
// touching the output root.
func (g *BindingGenerator) Preview() (*models.ModuleTree, error) {
	files, err := g.Walker.Walk(g.cfg.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to walk source root: %w", err)
	}

	namer := naming.NewNamer(g.cfg.Naming.ModuleExtension)
	registry := naming.NewRegistry(g.cfg.Naming.OnCollision, g.cfg.Naming.OnStemClash, g.log)
	tree := models.NewModuleTree(filepath.Base(g.cfg.OutputRoot))

	for _, file := range files {
		if !g.cfg.IsHeader(file) {
			continue
		}
		task, err := models.NewConversionTask(g.cfg.SourceRoot, g.cfg.OutputRoot, file, namer.Derive)
		if err != nil {
			return nil, err
		}
		if err := registry.ClaimPath(task.SourceRel); err != nil {
			return nil, err
		}
		tree.AddModule(task.DestRel, false)
	}
	return tree, nil
}
