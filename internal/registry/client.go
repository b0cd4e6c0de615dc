// Package registry reads the building-registry hub datasets: complex title
// (총괄표제부), single title (표제부), per-unit floor areas, possession rows
// and house-price history. Every call is best-effort: network errors,
// non-200 statuses and malformed payloads are absorbed into a "no data"
// result so one flaky dataset never sinks the whole record.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"multi-unit-enrichment/internal/match"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/pkg/logging"
	"multi-unit-enrichment/pkg/ratelimit"
)

type Client struct {
	http    *http.Client
	baseURL string
	key     string
	limiter *ratelimit.Limiter
	log     *logging.Logger
}

func NewClient(baseURL, serviceKey string, httpClient *http.Client, limiter *ratelimit.Limiter, log *logging.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		key:     serviceKey,
		limiter: limiter,
		log:     log.WithComponent("registry"),
	}
}

// RecapTitle fetches the complex-title rows for the parcel. total > 0 marks
// the parcel as a multi-building complex and selects the complex merge
// branch downstream.
func (c *Client) RecapTitle(ctx context.Context, codes models.ResolvedCodes) (items []RecapItem, total int) {
	env := c.get(ctx, "getBrRecapTitleInfo", c.parcelParams(codes, 10))
	if env == nil {
		return nil, 0
	}
	return decodeItems[RecapItem](env.Response.Body.Items), env.Response.Body.TotalCount.Int()
}

// Title fetches the per-building single-title rows for the parcel.
func (c *Client) Title(ctx context.Context, codes models.ResolvedCodes) []TitleItem {
	env := c.get(ctx, "getBrTitleInfo", c.parcelParams(codes, 50))
	if env == nil {
		return nil
	}
	return decodeItems[TitleItem](env.Response.Body.Items)
}

// areaQuery is one attempt strategy for the floor-area lookup.
type areaQuery struct {
	dong, ho string
	rows     int
	filtered bool // upstream saw dong/ho filters
}

// areaQueries builds the ordered fallback strategies: the raw designators,
// the digits-only reduction, and finally an unfiltered query with a larger
// page. Evaluated in sequence with short-circuit on first non-empty result.
func areaQueries(dong, ho string) []areaQuery {
	queries := []areaQuery{{dong: dong, ho: ho, rows: 50, filtered: dong != "" || ho != ""}}

	if dong != "" || ho != "" {
		nd, nh := match.Digits(dong), match.Digits(ho)
		if (nd != "" || nh != "") && (nd != dong || nh != ho) {
			queries = append(queries, areaQuery{dong: nd, ho: nh, rows: 50, filtered: true})
		}
	}

	queries = append(queries, areaQuery{rows: 100})
	return queries
}

// UnitAreas fetches the exclusive/common floor-area line items for the unit.
// The upstream dong/ho filter is an exact string match and routinely misses,
// so the query runs through the fallback strategies; when only the
// unfiltered stage returns rows, the result is post-filtered client-side by
// extracted unit number, keeping the full set if nothing matches. A nil
// return means no data anywhere — distinct from a present-but-zero area.
func (c *Client) UnitAreas(ctx context.Context, codes models.ResolvedCodes, dong, ho string) []AreaItem {
	for _, q := range areaQueries(dong, ho) {
		params := c.parcelParams(codes, q.rows)
		if q.filtered {
			params.Set("dongNm", q.dong)
			params.Set("hoNm", q.ho)
		}

		env := c.get(ctx, "getBrExposPubuseAreaInfo", params)
		if env == nil {
			return nil
		}
		if env.Response.Body.TotalCount.Int() == 0 {
			continue
		}

		items := decodeItems[AreaItem](env.Response.Body.Items)
		if len(items) == 0 {
			continue
		}
		if !q.filtered {
			return postFilterAreas(items, dong, ho)
		}
		return items
	}
	return nil
}

// postFilterAreas narrows an unfiltered area result to the requested unit by
// comparing extracted dong/ho numbers. No match keeps the unfiltered set:
// better to sum what the parcel has than to invent an absence.
func postFilterAreas(items []AreaItem, dong, ho string) []AreaItem {
	if ho == "" {
		return items
	}
	var matched []AreaItem
	for _, it := range items {
		if match.DongEquals(dong, it.DongNm.String()) && match.HoEquals(ho, it.HoNm.String()) {
			matched = append(matched, it)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return items
}

// Possessions fetches the 전유부 rows used to locate a unit's internal
// registry primary key.
func (c *Client) Possessions(ctx context.Context, codes models.ResolvedCodes, dong, ho string) []PossessionItem {
	params := c.parcelParams(codes, 50)
	params.Set("dongNm", dong)
	params.Set("hoNm", ho)

	env := c.get(ctx, "getBrExposInfo", params)
	if env == nil {
		return nil
	}
	return decodeItems[PossessionItem](env.Response.Body.Items)
}

// HousePrices fetches the house-price history rows for the parcel. Entries
// for a specific unit are selected afterwards by registry primary key.
func (c *Client) HousePrices(ctx context.Context, codes models.ResolvedCodes) []PriceItem {
	env := c.get(ctx, "getBrHsprcInfo", c.parcelParams(codes, 100))
	if env == nil {
		return nil
	}
	return decodeItems[PriceItem](env.Response.Body.Items)
}

func (c *Client) parcelParams(codes models.ResolvedCodes, rows int) url.Values {
	params := url.Values{}
	params.Set("serviceKey", c.key)
	params.Set("sigunguCd", codes.SigunguCode)
	params.Set("bjdongCd", codes.BjdongCode)
	params.Set("bun", codes.Bun)
	params.Set("ji", codes.Ji)
	params.Set("_type", "json")
	params.Set("numOfRows", fmt.Sprint(rows))
	params.Set("pageNo", "1")
	return params
}

// get performs one rate-limited call and decodes the envelope. Any failure
// is logged and absorbed to nil.
func (c *Client) get(ctx context.Context, op string, params url.Values) *envelope {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+op+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Error(op+" request build failed", err)
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(op+" failed", logging.String("reason", err.Error()))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn(op+" body read failed", logging.String("reason", err.Error()))
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn(op+" returned non-200", logging.Int("status", resp.StatusCode))
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.log.Warn(op+" returned malformed payload", logging.String("reason", err.Error()))
		return nil
	}
	return &env
}
