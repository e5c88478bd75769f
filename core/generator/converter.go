package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/models"
	"github.com/tristendillon/headersync/core/naming"
	"github.com/tristendillon/headersync/core/scaffold"
	"github.com/tristendillon/headersync/core/translator"
)

// hitReporter is implemented by translators that can serve from a cache.
type hitReporter interface {
	LastWasHit() bool
}

// Converter turns one ConversionTask into one module file plus its
// declaration. Translator failures are soft and come back as a failed
// Outcome; every other error is fatal for the run.
type Converter struct {
	fs         afero.Fs
	layout     scaffold.Layout
	namer      *naming.Namer
	registry   *naming.Registry
	scaffolder *scaffold.Scaffolder
	translator translator.Translator
	log        *logger.Logger
}

func NewConverter(
	fs afero.Fs,
	layout scaffold.Layout,
	namer *naming.Namer,
	registry *naming.Registry,
	tr translator.Translator,
	log *logger.Logger,
) *Converter {
	return &Converter{
		fs:         fs,
		layout:     layout,
		namer:      namer,
		registry:   registry,
		scaffolder: scaffold.NewScaffolder(fs, layout, log),
		translator: tr,
		log:        log,
	}
}

func (c *Converter) Convert(ctx context.Context, task *models.ConversionTask) (models.Outcome, error) {
	if err := c.registry.ClaimPath(task.SourceRel); err != nil {
		return models.Outcome{}, err
	}
	if err := c.scaffolder.EnsureModulePath(task.DestRelDir()); err != nil {
		return models.Outcome{}, err
	}

	c.log.Debug("Attempting build bindings for '%s'", task.SourceRel)
	data, err := c.translator.Translate(ctx, task.SourceRel)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.Outcome{}, fmt.Errorf("run interrupted: %w", ctxErr)
	}

	outcome := models.Outcome{Status: models.OutcomeTranslated}
	if hr, ok := c.translator.(hitReporter); ok && err == nil {
		outcome.CacheHit = hr.LastWasHit()
	}

	if err != nil {
		var tErr *translator.Error
		if !errors.As(err, &tErr) {
			return models.Outcome{}, err
		}
		c.log.Warn("%v", err)
		outcome = models.Outcome{Status: models.OutcomeFailed, Err: err}
		data = nil
	} else {
		c.log.Debug("Attempting write generate code to: %s", task.DestPath)
	}

	if err := afero.WriteFile(c.fs, task.DestPath, data, os.FileMode(0o644)); err != nil {
		return models.Outcome{}, fmt.Errorf("failed to write %s: %w", task.DestPath, err)
	}

	parentDecl := c.layout.DeclarationFileFor(filepath.Dir(task.DestPath))
	c.log.Debug("Attempting to add new module declaration to: %s", parentDecl)
	if err := scaffold.AppendDeclaration(c.fs, parentDecl, c.namer.ModuleName(task.DestRel)); err != nil {
		return models.Outcome{}, err
	}

	return outcome, nil
}
