// Package processor drives the enrichment of one record end to end:
// parse the address, resolve jurisdiction codes, fan out across the
// registry and valuation APIs, merge, and write back.
package processor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"multi-unit-enrichment/internal/address"
	"multi-unit-enrichment/internal/datastore"
	"multi-unit-enrichment/internal/merge"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/internal/registry"
	"multi-unit-enrichment/internal/retry"
	"multi-unit-enrichment/internal/vworld"
	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/pkg/logging"
)

// registryAPI is the registry surface the processor consumes; the concrete
// client satisfies it, tests substitute fakes.
type registryAPI interface {
	RecapTitle(ctx context.Context, codes models.ResolvedCodes) ([]registry.RecapItem, int)
	Title(ctx context.Context, codes models.ResolvedCodes) []registry.TitleItem
	UnitAreas(ctx context.Context, codes models.ResolvedCodes, dong, ho string) []registry.AreaItem
	Possessions(ctx context.Context, codes models.ResolvedCodes, dong, ho string) []registry.PossessionItem
	HousePrices(ctx context.Context, codes models.ResolvedCodes) []registry.PriceItem
}

type valuationAPI interface {
	LandCharacteristics(ctx context.Context, pnu string) *vworld.LandInfo
	LandShare(ctx context.Context, pnu, dong, ho string) *float64
}

type codeResolver interface {
	Resolve(ctx context.Context, pa models.ParsedAddress) (models.ResolvedCodes, error)
}

// Status classifies the outcome of processing one record.
type Status int

const (
	StatusWritten Status = iota
	StatusSkipped
	StatusFailed
)

// Result reports one record's outcome. NewlyExhausted is set on the
// attempt that used up the record's last retry, not on later skips.
type Result struct {
	Status         Status
	Err            error
	NewlyExhausted bool
}

type RecordProcessor struct {
	resolver  codeResolver
	registry  registryAPI
	valuation valuationAPI
	store     datastore.Store
	ledger    *retry.Ledger
	log       *logging.Logger
}

func NewRecordProcessor(
	resolver codeResolver,
	reg registryAPI,
	val valuationAPI,
	store datastore.Store,
	ledger *retry.Ledger,
	log *logging.Logger,
) *RecordProcessor {
	return &RecordProcessor{
		resolver:  resolver,
		registry:  reg,
		valuation: val,
		store:     store,
		ledger:    ledger,
		log:       log.WithComponent("processor"),
	}
}

// Process enriches one record. Failures are recorded in the retry ledger;
// a permanent failure exhausts the record immediately.
func (p *RecordProcessor) Process(ctx context.Context, rec models.UnitRecord) Result {
	log := p.log.WithRecord(rec.ID)

	if !p.ledger.CanAttempt(rec.ID) {
		log.Info("record skipped, retry allowance exhausted")
		return Result{Status: StatusSkipped}
	}

	pa, err := address.Parse(rec.Address)
	if err != nil {
		// An unparseable address cannot improve on retry.
		log.Warn("address rejected", logging.String("reason", err.Error()))
		exhausted := p.ledger.Record(rec.ID, false, true)
		return Result{Status: StatusFailed, Err: err, NewlyExhausted: exhausted}
	}

	codes, err := p.resolver.Resolve(ctx, pa)
	if err != nil {
		return p.fail(log, rec.ID, err)
	}

	fetched, err := p.fetch(ctx, codes, rec)
	if err != nil {
		return p.fail(log, rec.ID, err)
	}

	if len(fetched.Recap) == 0 && len(fetched.Title) == 0 {
		return p.fail(log, rec.ID, apperrors.NewBiz("processor.Process",
			fmt.Sprintf("no building data found for %s", rec.Address), nil))
	}

	attrs := merge.Merge(*fetched)
	if len(attrs) == 0 {
		return p.fail(log, rec.ID, apperrors.NewBiz("processor.Process",
			"merge produced no columns", nil))
	}
	if !merge.HasMeaningfulData(attrs) {
		return p.fail(log, rec.ID, apperrors.NewBiz("processor.Process",
			"merge produced no meaningful unit data", nil))
	}

	if err := p.store.Update(ctx, rec.ID, attrs); err != nil {
		return p.fail(log, rec.ID, err)
	}

	p.ledger.Record(rec.ID, true, false)
	log.Info("record enriched",
		logging.Int("columns", len(attrs)),
		logging.String("kind", kindLabel(*fetched)))
	return Result{Status: StatusWritten}
}

// fetch runs the independent API calls concurrently. The registry and
// valuation clients absorb their own failures into empty results, so the
// group only surfaces cancellation.
func (p *RecordProcessor) fetch(ctx context.Context, codes models.ResolvedCodes, rec models.UnitRecord) (*merge.Input, error) {
	in := &merge.Input{Dong: rec.Dong, Ho: rec.Ho}
	pnu := address.PNU(codes)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		in.Recap, in.RecapTotal = p.registry.RecapTitle(gctx, codes)
		return gctx.Err()
	})
	g.Go(func() error {
		in.Title = p.registry.Title(gctx, codes)
		return gctx.Err()
	})
	g.Go(func() error {
		in.Areas = p.registry.UnitAreas(gctx, codes, rec.Dong, rec.Ho)
		return gctx.Err()
	})
	g.Go(func() error {
		// The price lookup needs the unit's possession key first; the
		// two calls are a dependent pair inside one goroutine.
		possessions := p.registry.Possessions(gctx, codes, rec.Dong, rec.Ho)
		if key := registry.UnitKey(possessions, rec.Dong, rec.Ho); key != "" {
			prices := p.registry.HousePrices(gctx, codes)
			in.Price = registry.SelectHousePrice(prices, key)
		}
		return gctx.Err()
	})

	if pnu != "" {
		g.Go(func() error {
			in.Land = p.valuation.LandCharacteristics(gctx, pnu)
			return gctx.Err()
		})
		g.Go(func() error {
			in.Share = p.valuation.LandShare(gctx, pnu, rec.Dong, rec.Ho)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.NewExternal("processor.fetch", "enrichment", "fetch cancelled", err)
	}
	return in, nil
}

func (p *RecordProcessor) fail(log *logging.Logger, id string, err error) Result {
	permanent := apperrors.Permanent(err)
	exhausted := p.ledger.Record(id, false, permanent)

	log.Warn("record processing failed",
		logging.String("reason", err.Error()),
		logging.Bool("permanent", permanent),
		logging.Int("attempts", p.ledger.Attempts(id)))

	return Result{Status: StatusFailed, Err: err, NewlyExhausted: exhausted}
}

func kindLabel(in merge.Input) string {
	if in.Kind() == merge.KindComplex {
		return "complex"
	}
	return "single"
}
