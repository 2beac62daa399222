package adapters

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/slide.html.tmpl
var slideTemplates embed.FS

type SlideLabels struct {
	Lang               string
	SlidePrefix        string
	SummaryHeading     string
	SummaryUnavailable string
	CodeHeading        string
	CodeUnavailable    string
}

func DefaultSlideLabels() SlideLabels {
	return SlideLabels{
		Lang:               "fr",
		SlidePrefix:        "Slide",
		SummaryHeading:     "Résumé",
		SummaryUnavailable: "Résumé indisponible",
		CodeHeading:        "Code",
		CodeUnavailable:    "<pre><code>// Code indisponible</code></pre>",
	}
}

type slideView struct {
	ID          int
	Title       string
	Summary     string
	ExampleCode string
	Labels      SlideLabels
}

type HTMLSlideRenderer struct {
	logger   outbound.LoggerPort
	labels   SlideLabels
	template *template.Template
}

// NewHTMLSlideRenderer embeds summary and example code verbatim; both are expected to be HTML fragments.
func NewHTMLSlideRenderer(logger outbound.LoggerPort, labels SlideLabels) (*HTMLSlideRenderer, error) {
	tmpl, err := template.ParseFS(slideTemplates, "templates/slide.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse slide template: %w", err)
	}
	return &HTMLSlideRenderer{
		logger:   logger,
		labels:   labels,
		template: tmpl,
	}, nil
}

func (r *HTMLSlideRenderer) BuildHTML(slide domain.Slide) (string, error) {
	if slide.ID == nil {
		return "", domain.Wrap(domain.KindValidation, "render", "build html", "slide without id", nil)
	}
	view := slideView{
		ID:          *slide.ID,
		Title:       strings.TrimSpace(slide.Title),
		Summary:     slide.Summary,
		ExampleCode: slide.ExampleCode,
		Labels:      r.labels,
	}
	if view.Title == "" {
		view.Title = fmt.Sprintf("%s %d", r.labels.SlidePrefix, view.ID)
	}
	if strings.TrimSpace(view.Summary) == "" {
		view.Summary = r.labels.SummaryUnavailable
	}
	if strings.TrimSpace(view.ExampleCode) == "" {
		view.ExampleCode = r.labels.CodeUnavailable
	}

	var buf bytes.Buffer
	if err := r.template.Execute(&buf, view); err != nil {
		return "", domain.Wrap(domain.KindRenderFailure, "render", "execute template", fmt.Sprintf("slide %d", view.ID), err)
	}
	return buf.String(), nil
}

func (r *HTMLSlideRenderer) Render(ctx context.Context, slide domain.Slide, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := r.BuildHTML(slide)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return domain.Wrap(domain.KindRenderFailure, "render", "create slides dir", "", err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return domain.Wrap(domain.KindRenderFailure, "render", "write html", outputPath, err)
	}
	r.logger.DebugWithFields("slide html written", map[string]interface{}{
		"slide_id": *slide.ID,
		"path":     outputPath,
		"bytes":    len(html),
	})
	return nil
}

var _ outbound.SlideRendererPort = (*HTMLSlideRenderer)(nil)
