package transform

import (
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/diag"
	"github.com/mark3labs/msgdoc/internal/logger"
)

// ErrNilDocument is returned by Run when there is no document to transform.
var ErrNilDocument = errors.New("transform: document is nil")

// verbOrder fixes the order operations of one path are visited in.
var verbOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// Result summarizes one run.
type Result struct {
	RunID       string
	Mode        string
	Diagnostics diag.Diagnostics

	SchemasTransformed    int
	SchemasSkipped        int
	SchemasRemoved        int
	OperationsTransformed int
	OperationsUnmatched   int
}

// Pipeline runs the document, schema and operation transformers over a
// document in that order.
type Pipeline struct {
	catalog    *catalog.Catalog
	opts       Options
	documents  *DocumentTransformer
	schemas    *SchemaTransformer
	operations *OperationTransformer
	log        *logrus.Logger
}

func NewPipeline(c *catalog.Catalog, gen SchemaGenerator, opts ...Option) *Pipeline {
	o := NewOptions(opts...)
	return &Pipeline{
		catalog:    c,
		opts:       o,
		documents:  NewDocumentTransformer(c, gen, o),
		schemas:    NewSchemaTransformer(c, o),
		operations: NewOperationTransformer(c, o),
		log:        logger.L(),
	}
}

// Options returns the effective options.
func (p *Pipeline) Options() Options { return p.opts }

// Run transforms doc in place. A catalog failing validation aborts the run;
// every other problem is reported in the result's diagnostics.
func (p *Pipeline) Run(doc *openapi3.T) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := p.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	res := &Result{RunID: uuid.NewString(), Mode: p.opts.Mode()}
	entry := p.log.WithFields(logrus.Fields{"run": res.RunID, "mode": res.Mode})
	entry.Debug("transform started")

	res.Diagnostics.Merge(p.catalog.Diagnostics)
	repo := NewRepository(doc)
	root := p.catalog.RootType()

	guard(&res.Diagnostics, CodeDocumentPanic, "document", func() diag.Diagnostics {
		return p.documents.Transform(doc, root, repo)
	})

	before := len(repo.IDs())
	for _, id := range repo.IDs() {
		if !repo.Has(id) {
			continue
		}
		mt := p.catalog.TypeBySchemaID(id)
		schema := repo.Get(id)
		if mt == nil || schema == nil {
			res.SchemasSkipped++
			continue
		}
		guard(&res.Diagnostics, CodeSchemaPanic, id, func() diag.Diagnostics {
			return p.schemas.Transform(schema, mt, repo)
		})
		res.SchemasTransformed++
	}
	res.SchemasRemoved = before - len(repo.IDs())

	for _, path := range sortedKeys(doc.Paths) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		for _, verb := range verbOrder {
			op := item.GetOperation(verb)
			if op == nil {
				continue
			}
			m := p.catalog.MethodFor(verb, path, op.OperationID)
			if m == nil {
				res.OperationsUnmatched++
				res.Diagnostics.Infof(CodeOperationUnmatched, verb+" "+path, "", "no method descriptor")
				continue
			}
			guard(&res.Diagnostics, CodeOperationPanic, m.ID(), func() diag.Diagnostics {
				return p.operations.Transform(op, m, repo)
			})
			res.OperationsTransformed++
		}
	}

	p.report(entry, res)
	return res, nil
}

func (p *Pipeline) report(entry *logrus.Entry, res *Result) {
	for _, it := range res.Diagnostics.Items {
		e := entry.WithFields(logrus.Fields{"code": it.Code, "subject": it.Subject})
		if it.Field != "" {
			e = e.WithField("field", it.Field)
		}
		switch it.Severity {
		case diag.SeverityError:
			e.Error(it.Message)
		case diag.SeverityWarning:
			e.Warn(it.Message)
		default:
			e.Debug(it.Message)
		}
	}
	entry.WithFields(logrus.Fields{
		"schemas":    res.SchemasTransformed,
		"removed":    res.SchemasRemoved,
		"operations": res.OperationsTransformed,
		"unmatched":  res.OperationsUnmatched,
	}).Info("transform finished")
}

// guard runs one unit of work and turns a panic into an error diagnostic so
// the remaining units still run.
func guard(d *diag.Diagnostics, code, subject string, fn func() diag.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			d.Errorf(code, subject, "", "recovered: %v", r)
		}
	}()
	d.Merge(fn())
}
