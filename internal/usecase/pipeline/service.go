// Package pipeline loads catalog files into the document store and the
// search index: parse, transform, embed, write, report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/domain"
	"github.com/vitacart/prodex/internal/domain/batch"
	"github.com/vitacart/prodex/internal/domain/customer"
	"github.com/vitacart/prodex/internal/domain/product"
	"github.com/vitacart/prodex/internal/metrics"
)

// Report is the outcome of one load run. Store and index results are
// reported separately: a load can land in the document store and still
// degrade on the index side.
type Report struct {
	Success bool          `json:"success"`
	Total   int           `json:"total"`
	Skipped int           `json:"skipped"`
	Store   batch.Report  `json:"store_result"`
	Index   *batch.Report `json:"index_result,omitempty"`
	Errors  []string      `json:"errors,omitempty"`
}

// Service runs the catalog load pipeline.
type Service struct {
	store      Store
	index      Indexer
	embed      Embedder
	embedDelay time.Duration
	batchSize  int
	logger     *zap.Logger
}

// New creates a pipeline service.
func New(store Store, index Indexer, embed Embedder, embedDelay time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		index:      index,
		embed:      embed,
		embedDelay: embedDelay,
		logger:     logger,
	}
}

// WithBatchSize caps the number of products sent to the store and the
// index in one write. Zero means one write for the whole catalog.
func (s *Service) WithBatchSize(size int) *Service {
	s.batchSize = size
	return s
}

// LoadProducts runs the full product pipeline: parse the file, transform
// records item by item, embed sequentially, upsert the store copy, then
// rebuild and fill the search index. A malformed record is skipped and
// reported, never fatal. A missing or empty file is fatal.
func (s *Service) LoadProducts(ctx context.Context, path string) (*Report, error) {
	start := time.Now()

	records, err := loadProductRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrCatalogEmpty
	}

	report := &Report{Total: len(records)}

	products := make([]product.Product, 0, len(records))
	for i, rec := range records {
		p, err := product.FromRecord(rec)
		if err != nil {
			report.Skipped++
			if len(report.Errors) < batch.MaxReportedErrors {
				report.Errors = append(report.Errors, fmt.Sprintf("record %d: %v", i, err))
			}
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no loadable records", domain.ErrCatalogEmpty)
	}

	s.logger.Info("Catalog transform complete",
		zap.Int("total", report.Total),
		zap.Int("skipped", report.Skipped),
	)

	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = p.SearchText()
	}
	vectors, tokens, err := s.embed.EmbedAll(ctx, texts, s.embedDelay)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Embedding = vectors[i]
	}

	s.logger.Info("Catalog embedding complete",
		zap.Int("products", len(products)),
		zap.Int("total_tokens", tokens),
	)

	report.Store = summarizeProductErrors(products, s.inBatches(ctx, products, s.store.PutProducts))

	indexReport, err := s.indexProducts(ctx, products)
	if err != nil {
		metrics.CatalogLoadTotal.WithLabelValues("failed").Add(float64(report.Total))
		return nil, err
	}
	report.Index = indexReport

	report.Success = report.Store.Succeeded > 0
	s.observeLoad(report, time.Since(start))

	return report, nil
}

// indexProducts rebuilds the index and bulk-writes the products. A
// connectivity failure degrades to an all-failed index report so a store
// write that already landed is not thrown away; any other failure aborts
// the load.
func (s *Service) indexProducts(ctx context.Context, products []product.Product) (*batch.Report, error) {
	if err := s.index.EnsureFresh(ctx); err != nil {
		if !isConnectivityError(err) {
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
		s.logger.Warn("Search index unreachable, catalog stored without indexing",
			zap.Error(err),
		)
		degraded := batch.Report{
			Total:  len(products),
			Failed: len(products),
			Errors: []string{domain.ErrIndexUnavailable.Error()},
		}
		return &degraded, nil
	}

	rep := summarizeProductErrors(products, s.inBatches(ctx, products, s.index.BulkIndex))
	return &rep, nil
}

// inBatches splits a bulk write into batchSize chunks, keeping the
// returned errors aligned with the input slice.
func (s *Service) inBatches(
	ctx context.Context,
	products []product.Product,
	write func(context.Context, []product.Product) []error,
) []error {
	if s.batchSize <= 0 || len(products) <= s.batchSize {
		return write(ctx, products)
	}
	errs := make([]error, 0, len(products))
	for start := 0; start < len(products); start += s.batchSize {
		end := min(start+s.batchSize, len(products))
		errs = append(errs, write(ctx, products[start:end])...)
	}
	return errs
}

// LoadCustomers loads customer profiles into the document store. Customers
// are not searchable, so there is no embedding or index stage.
func (s *Service) LoadCustomers(ctx context.Context, path string) (*Report, error) {
	records, err := loadCustomerRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrCatalogEmpty
	}

	report := &Report{Total: len(records)}

	customers := make([]customer.Customer, 0, len(records))
	for i, rec := range records {
		c, err := customer.FromRecord(rec)
		if err != nil {
			report.Skipped++
			if len(report.Errors) < batch.MaxReportedErrors {
				report.Errors = append(report.Errors, fmt.Sprintf("record %d: %v", i, err))
			}
			continue
		}
		customers = append(customers, c)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: no loadable records", domain.ErrCatalogEmpty)
	}

	errs := s.store.PutCustomers(ctx, customers)
	results := make([]batch.Result, len(customers))
	for i, c := range customers {
		if errs[i] != nil {
			results[i] = batch.NewError(c.CustomerID, errs[i])
		} else {
			results[i] = batch.NewOK(c.CustomerID)
		}
	}
	report.Store = batch.Summarize(results)
	report.Success = report.Store.Succeeded > 0

	s.logger.Info("Customer load complete",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Store.Succeeded),
		zap.Int("failed", report.Store.Failed),
	)

	return report, nil
}

func (s *Service) observeLoad(report *Report, took time.Duration) {
	succeeded := report.Store.Succeeded
	failed := report.Total - succeeded
	metrics.CatalogLoadTotal.WithLabelValues("succeeded").Add(float64(succeeded))
	metrics.CatalogLoadTotal.WithLabelValues("failed").Add(float64(failed))
	metrics.CatalogLoadDuration.Observe(took.Seconds())

	s.logger.Info("Catalog load complete",
		zap.Bool("success", report.Success),
		zap.Int("total", report.Total),
		zap.Int("skipped", report.Skipped),
		zap.Int("stored", report.Store.Succeeded),
		zap.Int("indexed", indexedCount(report.Index)),
		zap.Duration("took", took),
	)
}

func indexedCount(rep *batch.Report) int {
	if rep == nil {
		return 0
	}
	return rep.Succeeded
}

func summarizeProductErrors(products []product.Product, errs []error) batch.Report {
	results := make([]batch.Result, len(products))
	for i, p := range products {
		if i < len(errs) && errs[i] != nil {
			results[i] = batch.NewError(p.ID, errs[i])
		} else {
			results[i] = batch.NewOK(p.ID)
		}
	}
	return batch.Summarize(results)
}

// connectivitySignatures are substrings that mark an unreachable engine
// rather than a bad request.
var connectivitySignatures = []string{
	"connection refused",
	"i/o timeout",
	"timeout",
	"unreachable",
	"no route to host",
	"connection reset",
	"broken pipe",
	"EOF",
}

func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, sig := range connectivitySignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
