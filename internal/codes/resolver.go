// Package codes resolves parsed jurisdiction/division names to their
// official numeric codes via an external lookup endpoint. This is the one
// upstream whose failure aborts a record: without codes no registry call is
// meaningful.
package codes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"multi-unit-enrichment/internal/models"
	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/pkg/logging"
)

// Resolver calls the code-lookup endpoint with bounded retries.
type Resolver struct {
	http     *http.Client
	url      string
	attempts uint
	delay    time.Duration
	log      *logging.Logger
}

func NewResolver(url string, client *http.Client, attempts int, delay time.Duration, log *logging.Logger) *Resolver {
	if attempts <= 0 {
		attempts = 2
	}
	return &Resolver{
		http:     client,
		url:      url,
		attempts: uint(attempts),
		delay:    delay,
		log:      log.WithComponent("codes"),
	}
}

// lookupResult mirrors one element of the endpoint's response array. The
// codes arrive as numbers or strings depending on the sheet row, so both are
// accepted and coerced to strings.
type lookupResult struct {
	SigunguCode models.Flex `json:"시군구코드"`
	BjdongCode  models.Flex `json:"법정동코드"`
}

// Resolve translates the parsed address into ResolvedCodes. It retries on
// any transport error or on a response missing either code, with a fixed
// delay between attempts; exhausting the budget returns a hard error.
func (r *Resolver) Resolve(ctx context.Context, pa models.ParsedAddress) (models.ResolvedCodes, error) {
	var resolved models.ResolvedCodes

	err := retry.Do(
		func() error {
			result, err := r.lookup(ctx, pa)
			if err != nil {
				return err
			}
			resolved = models.ResolvedCodes{
				ParsedAddress: pa,
				SigunguCode:   result.SigunguCode.String(),
				BjdongCode:    result.BjdongCode.String(),
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn("code lookup retrying",
				logging.Int("attempt", int(n)+1),
				logging.String("reason", err.Error()))
		}),
	)
	if err != nil {
		return models.ResolvedCodes{}, apperrors.NewExternal("codes.Resolve", "codelookup", "code lookup failed after retries", err)
	}
	return resolved, nil
}

func (r *Resolver) lookup(ctx context.Context, pa models.ParsedAddress) (lookupResult, error) {
	payload, err := json.Marshal([]models.ParsedAddress{pa})
	if err != nil {
		return lookupResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return lookupResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return lookupResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookupResult{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return lookupResult{}, fmt.Errorf("code lookup returned status %d", resp.StatusCode)
	}

	var results []lookupResult
	if err := json.Unmarshal(body, &results); err != nil {
		return lookupResult{}, fmt.Errorf("code lookup returned unexpected payload: %w", err)
	}
	if len(results) == 0 {
		return lookupResult{}, fmt.Errorf("code lookup returned no rows")
	}

	first := results[0]
	if first.SigunguCode.String() == "" || first.BjdongCode.String() == "" {
		return lookupResult{}, fmt.Errorf("code lookup response missing codes for %s %s", pa.Sigungu, pa.Bjdong)
	}
	return first, nil
}
