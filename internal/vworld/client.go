// Package vworld reads the land-valuation API: land characteristics (an XML
// payload) and per-unit land-share rows. Like the registry client, every
// call is best-effort and absorbs failures into "not found".
package vworld

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/clbanning/mxj/v2"

	"multi-unit-enrichment/internal/match"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/pkg/logging"
	"multi-unit-enrichment/pkg/ratelimit"
)

type Client struct {
	http     *http.Client
	baseURL  string
	key      string
	stdrYear string
	limiter  *ratelimit.Limiter
	log      *logging.Logger
}

func NewClient(baseURL, apiKey, stdrYear string, httpClient *http.Client, limiter *ratelimit.Limiter, log *logging.Logger) *Client {
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		key:      apiKey,
		stdrYear: stdrYear,
		limiter:  limiter,
		log:      log.WithComponent("vworld"),
	}
}

// LandInfo carries the land-use zone label and parcel land area. A nil
// LandArea means the API did not report one; zero is never fabricated.
type LandInfo struct {
	UseZone  string
	LandArea *float64
}

// LandCharacteristics fetches the parcel's land-use zone and land area,
// keyed by PNU alone. The payload is XML; a generic XML→map conversion
// isolates us from the service's element nesting.
func (c *Client) LandCharacteristics(ctx context.Context, pnu string) *LandInfo {
	info := &LandInfo{}

	body := c.get(ctx, "getLandCharacteristics", url.Values{
		"key":       {c.key},
		"domain":    {"localhost"},
		"pnu":       {pnu},
		"stdrYear":  {c.stdrYear},
		"format":    {"xml"},
		"numOfRows": {"10"},
		"pageNo":    {"1"},
	})
	if body == nil {
		return info
	}

	m, err := mxj.NewMapXml(body)
	if err != nil {
		c.log.Warn("land characteristics payload is not XML", logging.String("reason", err.Error()))
		return info
	}

	fields, err := m.ValuesForPath("response.fields.field")
	if err != nil || len(fields) == 0 {
		return info
	}
	first, ok := fields[0].(map[string]interface{})
	if !ok {
		return info
	}

	info.UseZone = leafText(first["prposArea1Nm"])
	if raw := leafText(first["lndpclAr"]); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			info.LandArea = &v
		}
	}
	return info
}

// LandShare fetches the unit's land-equity share in ㎡. The upstream filter
// on building/unit names is exact-match and unreliable, so the lookup walks
// the designator variant grid — including a "0000" placeholder when the
// record has no dong — and finally retries without any dong parameter. A
// nil return means no share was found anywhere.
func (c *Client) LandShare(ctx context.Context, pnu, dong, ho string) *float64 {
	dongVariants := match.DongVariants(dong)
	hoVariants := match.HoVariants(ho)

	if strings.TrimSpace(dong) == "" {
		dongVariants = append(dongVariants, "0000")
	}

	for _, d := range dongVariants {
		for _, h := range hoVariants {
			if share := c.tryLandShare(ctx, pnu, d, h); share != nil {
				return share
			}
		}
	}

	// Some buildings register every unit under a blank dong; last resort is
	// dropping the parameter entirely.
	return c.tryLandShare(ctx, pnu, "", hoVariants[0])
}

// shareList mirrors both row-list shapes the endpoint returns. Older
// deployments use ldaregVOList, newer ones buldRlnmList's own naming.
type shareList struct {
	TotalCount models.Flex     `json:"totalCount"`
	Ldareg     json.RawMessage `json:"ldaregVOList"`
	BuldRlnm   json.RawMessage `json:"buldRlnmVOList"`
}

type shareItem struct {
	LdaQotaRate   models.Flex `json:"ldaQotaRate"`
	LandShareRate models.Flex `json:"landShareRate"`
}

func (c *Client) tryLandShare(ctx context.Context, pnu, dong, ho string) *float64 {
	params := url.Values{
		"key":       {c.key},
		"pnu":       {pnu},
		"format":    {"json"},
		"numOfRows": {"10"},
		"pageNo":    {"1"},
	}
	if strings.TrimSpace(dong) != "" {
		params.Set("buldDongNm", strings.TrimSpace(dong))
	}
	if strings.TrimSpace(ho) != "" {
		params.Set("buldHoNm", strings.TrimSpace(ho))
	}

	body := c.get(ctx, "buldRlnmList", params)
	if body == nil {
		return nil
	}

	var payload struct {
		Ldareg   *shareList `json:"ldaregVOList"`
		BuldRlnm *shareList `json:"buldRlnmVOList"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn("land share payload malformed", logging.String("reason", err.Error()))
		return nil
	}

	list := payload.Ldareg
	if list == nil {
		list = payload.BuldRlnm
	}
	if list == nil || list.TotalCount.Int() == 0 {
		return nil
	}

	items := decodeShareItems(list.Ldareg)
	if len(items) == 0 {
		items = decodeShareItems(list.BuldRlnm)
	}

	for _, it := range items {
		rate := it.LdaQotaRate.Or(it.LandShareRate.String())
		if strings.TrimSpace(rate) == "" {
			continue
		}
		// The share arrives as a fraction "X/Y"; the numerator is the
		// unit's equity in ㎡.
		numerator := strings.SplitN(rate, "/", 2)[0]
		if v, err := strconv.ParseFloat(strings.TrimSpace(numerator), 64); err == nil {
			return &v
		}
	}
	return nil
}

func decodeShareItems(raw json.RawMessage) []shareItem {
	if len(raw) == 0 {
		return nil
	}
	var many []shareItem
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one shareItem
	if err := json.Unmarshal(raw, &one); err == nil {
		return []shareItem{one}
	}
	return nil
}

// get performs one rate-limited call, returning the raw body or nil.
func (c *Client) get(ctx context.Context, op string, params url.Values) []byte {
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
	return body
}

// leafText extracts the text of an mxj leaf, which is a plain string for
// simple elements or a map with "#text" when attributes are present.
func leafText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		if s, ok := t["#text"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
