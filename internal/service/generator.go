package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docgen/internal/converter"
	"docgen/internal/docx"
	"docgen/internal/model"
	"docgen/internal/parse"
)

// ErrUnknownKind is returned for a document kind with no configured template.
var ErrUnknownKind = errors.New("unknown document kind")

// Request is a parsed form ready to be rendered.
type Request interface {
	Kind() model.Kind
	Filename() string
	Mapping(today parse.Date, sizing docx.Image) *docx.Mapping
	Artifact() *model.Artifact
}

// Result is a generated PDF. Artifact is nil when the PDF was not stored.
type Result struct {
	Filename string
	PDF      []byte
	Artifact *model.Artifact
}

// GeneratorConfig selects templates and rendering defaults.
type GeneratorConfig struct {
	Templates map[model.Kind]string
	WorkDir   string
	Location  *time.Location
	// Image sizes pictures inserted into templates; Data is ignored.
	Image docx.Image
}

// Generator runs the form to PDF pipeline.
type Generator interface {
	// Generate renders the request's template, converts it to PDF and, when
	// an artifact store is configured, records the result. Storage failures
	// are logged and do not fail generation.
	Generate(ctx context.Context, req Request) (*Result, error)

	// Placeholders lists the keys declared by the template for kind.
	Placeholders(kind model.Kind) ([]string, error)
}

type generator struct {
	cfg       GeneratorConfig
	conv      converter.Converter
	artifacts ArtifactService
	log       *logrus.Logger
	tracer    trace.Tracer
	generated *prometheus.CounterVec
	now       func() time.Time
}

// NewGenerator constructs a Generator. artifacts may be nil, in which case
// nothing is persisted.
func NewGenerator(cfg GeneratorConfig, conv converter.Converter, artifacts ArtifactService, log *logrus.Logger, reg prometheus.Registerer) (Generator, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	g := &generator{
		cfg:       cfg,
		conv:      conv,
		artifacts: artifacts,
		log:       log,
		tracer:    otel.Tracer("docgen/internal/service"),
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_generated_total",
				Help: "Total number of documents generated, by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		now: time.Now,
	}
	if err := reg.Register(g.generated); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *generator) Placeholders(kind model.Kind) ([]string, error) {
	path, ok := g.cfg.Templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	doc, err := docx.Open(path)
	if err != nil {
		return nil, err
	}
	return doc.Placeholders(), nil
}

func (g *generator) Generate(ctx context.Context, req Request) (*Result, error) {
	kind := req.Kind()
	ctx, span := g.tracer.Start(ctx, "generator.Generate", trace.WithAttributes(attribute.String("document.kind", string(kind))))
	defer span.End()

	res, err := g.generate(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	g.generated.WithLabelValues(string(kind), status).Inc()
	return res, err
}

func (g *generator) generate(ctx context.Context, req Request) (*Result, error) {
	path, ok := g.cfg.Templates[req.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind())
	}

	dir, err := os.MkdirTemp(g.cfg.WorkDir, "docgen-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "document.docx")
	err = g.stage(ctx, "template.render", func(context.Context) error {
		doc, err := docx.Open(path)
		if err != nil {
			return err
		}
		today := parse.DateOf(g.now().In(g.cfg.Location))
		if err := doc.Render(req.Mapping(today, g.cfg.Image)); err != nil {
			return err
		}
		return doc.Save(input)
	})
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = g.stage(ctx, "document.convert", func(ctx context.Context) error {
		out, err := g.conv.Convert(ctx, input, dir)
		if err != nil {
			return err
		}
		pdf, err = os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("%w: read output: %v", converter.ErrConversion, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Filename: req.Filename(), PDF: pdf}
	if g.artifacts == nil {
		return res, nil
	}
	_ = g.stage(ctx, "artifact.save", func(ctx context.Context) error {
		stored, err := g.artifacts.Save(ctx, req.Artifact(), pdf)
		if err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"kind":     req.Kind(),
				"filename": res.Filename,
			}).Warn("generated document not stored")
			return err
		}
		res.Artifact = stored
		return nil
	})
	return res, nil
}

func (g *generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
