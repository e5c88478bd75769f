package template_engine

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
)

//go:embed all:templates
var TemplateFS embed.FS

type TemplateRef struct {
	Path  string
	IsDir bool
}

func (tr TemplateRef) IsFile() bool {
	return !tr.IsDir
}

var TEMPLATES = struct {
	INIT struct{ Ref TemplateRef }
}{
	INIT: struct{ Ref TemplateRef }{Ref: TemplateRef{Path: "init", IsDir: true}},
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"now":  time.Now,
		"date": func(t time.Time) string { return t.Format("2006-01-02") },
	}
}

// TemplateEngine renders the embedded templates onto a filesystem. Files
// ending in .tmpl are executed and lose the suffix; everything else is
// copied as is.
type TemplateEngine struct {
	fs      afero.Fs
	funcMap template.FuncMap
	log     *logger.Logger

	// Overwrite replaces existing files instead of failing.
	Overwrite bool
}

func NewTemplateEngine(fs afero.Fs, log *logger.Logger) *TemplateEngine {
	return &TemplateEngine{
		fs:      fs,
		funcMap: getDefaultFuncMap(),
		log:     log,
	}
}

// GenerateFolder renders every file under templateRef into outputDir and
// returns the written paths in walk order. Unless Overwrite is set, every
// target is checked before anything is written, so a conflict leaves
// outputDir untouched.
func (te *TemplateEngine) GenerateFolder(templateRef TemplateRef, outputDir string, data interface{}) ([]string, error) {
	if templateRef.IsFile() {
		return nil, fmt.Errorf("cannot generate folder from file reference: %s", templateRef.Path)
	}
	te.log.Debug("Generating folder from template reference: %s", templateRef.Path)

	templates, err := te.ListTemplates(templateRef)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", templateRef.Path, err)
	}

	targets := make([]string, len(templates))
	var conflicts []string
	for i, tmpl := range templates {
		relPath := strings.TrimSuffix(strings.TrimPrefix(tmpl, templateRef.Path+"/"), ".tmpl")
		targets[i] = filepath.Join(outputDir, filepath.FromSlash(relPath))

		if te.Overwrite {
			continue
		}
		exists, err := afero.Exists(te.fs, targets[i])
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", targets[i], err)
		}
		if exists {
			conflicts = append(conflicts, targets[i])
		}
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%s already exists", strings.Join(conflicts, ", "))
	}

	for i, tmpl := range templates {
		te.log.Debug("Generating file from path: %s", tmpl)
		if err := te.generateFileFromPath(path.Join("templates", tmpl), targets[i], data); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func (te *TemplateEngine) generateFileFromPath(templatePath, outputPath string, data interface{}) error {
	content, err := TemplateFS.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", templatePath, err)
	}

	if strings.HasSuffix(templatePath, ".tmpl") {
		tmpl, err := template.New(path.Base(templatePath)).Funcs(te.funcMap).Parse(string(content))
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", templatePath, err)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
		}
		content = []byte(sb.String())
	}

	if err := te.fs.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := afero.WriteFile(te.fs, outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return nil
}

// ListTemplates returns the embedded files under a folder reference,
// relative to the templates root.
func (te *TemplateEngine) ListTemplates(templateRef TemplateRef) ([]string, error) {
	var templates []string
	err := fs.WalkDir(TemplateFS, path.Join("templates", templateRef.Path), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			templates = append(templates, strings.TrimPrefix(p, "templates/"))
		}
		return nil
	})
	return templates, err
}
