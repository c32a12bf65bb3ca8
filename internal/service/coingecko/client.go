package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"CycleWatch/internal/domain/models"
	drepo "CycleWatch/internal/domain/repository"
	"CycleWatch/internal/service/ratelimit"
	xhttp "CycleWatch/pkg/http"
)

const limiterKey = "coingecko"

// Client implements a MarketDataSource backed by the CoinGecko REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client

	limiter *ratelimit.Limiter
	burst   float64
	rps     float64
}

// Option configures Client.
type Option func(*Client)

// WithRateLimiter throttles outbound calls through a shared token bucket.
func WithRateLimiter(l *ratelimit.Limiter, burst, refillPerSec float64) Option {
	return func(c *Client) {
		c.limiter = l
		c.burst = burst
		c.rps = refillPerSec
	}
}

// New creates a new CoinGecko MarketDataSource.
func New(baseURL string, timeout time.Duration, opts ...Option) drepo.MarketDataSource {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type globalResponse struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// GlobalDominance returns BTC's share of total market cap, in percent.
func (c *Client) GlobalDominance(ctx context.Context) (float64, error) {
	var res globalResponse
	if err := c.get(ctx, "/global", nil, &res); err != nil {
		return 0, fmt.Errorf("coingecko global: %w", err)
	}
	dom, ok := res.Data.MarketCapPercentage["btc"]
	if !ok {
		return 0, fmt.Errorf("coingecko global: btc dominance missing: %w", drepo.ErrMalformedResponse)
	}
	return dom, nil
}

// EthBtcRatio returns the ETH price denominated in BTC.
func (c *Client) EthBtcRatio(ctx context.Context) (float64, error) {
	var res map[string]map[string]float64
	params := map[string][]string{
		"ids":           {"ethereum"},
		"vs_currencies": {"btc"},
	}
	if err := c.get(ctx, "/simple/price", params, &res); err != nil {
		return 0, fmt.Errorf("coingecko ethbtc: %w", err)
	}
	ratio, ok := res["ethereum"]["btc"]
	if !ok {
		return 0, fmt.Errorf("coingecko ethbtc: ratio missing: %w", drepo.ErrMalformedResponse)
	}
	return ratio, nil
}

// PricesUSD returns USD spot prices keyed by coin id.
func (c *Client) PricesUSD(ctx context.Context, ids []string) (map[string]float64, error) {
	var res map[string]map[string]float64
	params := map[string][]string{
		"ids":           {strings.Join(ids, ",")},
		"vs_currencies": {"usd"},
	}
	if err := c.get(ctx, "/simple/price", params, &res); err != nil {
		return nil, fmt.Errorf("coingecko prices: %w", err)
	}

	prices := make(map[string]float64, len(ids))
	for _, id := range ids {
		usd, ok := res[id]["usd"]
		if !ok {
			return nil, fmt.Errorf("coingecko prices: %s missing: %w", id, drepo.ErrMalformedResponse)
		}
		prices[id] = usd
	}
	return prices, nil
}

type marketRow struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  float64  `json:"current_price"`
	MarketCapRank int      `json:"market_cap_rank"`
	MarketCap     *float64 `json:"market_cap"`
	Change24h     *float64 `json:"price_change_percentage_24h_in_currency"`
	Change7d      *float64 `json:"price_change_percentage_7d_in_currency"`
	Change30d     *float64 `json:"price_change_percentage_30d_in_currency"`
}

// TopAlts returns the top n coins by market cap excluding BTC and ETH.
func (c *Client) TopAlts(ctx context.Context, n int) ([]models.AltQuote, error) {
	var rows []marketRow
	params := map[string][]string{
		"vs_currency":             {"usd"},
		"order":                   {"market_cap_desc"},
		"per_page":                {fmt.Sprintf("%d", n+2)},
		"page":                    {"1"},
		"sparkline":               {"false"},
		"price_change_percentage": {"24h,7d,30d"},
	}
	if err := c.get(ctx, "/coins/markets", params, &rows); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	alts := make([]models.AltQuote, 0, n)
	for _, r := range rows {
		sym := strings.ToUpper(r.Symbol)
		if sym == "BTC" || sym == "ETH" {
			continue
		}
		var capB float64
		if r.MarketCap != nil {
			capB = *r.MarketCap / 1e9
		}
		alts = append(alts, models.AltQuote{
			Rank:       r.MarketCapRank,
			Symbol:     sym,
			Name:       r.Name,
			PriceUSD:   r.CurrentPrice,
			Change24h:  r.Change24h,
			Change7d:   r.Change7d,
			Change30d:  r.Change30d,
			MarketCapB: capB,
		})
		if len(alts) == n {
			break
		}
	}
	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Rank < alts[j].Rank })
	return alts, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if c.limiter != nil && !c.limiter.Allow(limiterKey, c.burst, c.rps) {
		return fmt.Errorf("local budget exhausted: %w", drepo.ErrRateLimited)
	}

	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
	if err == nil {
		return nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return drepo.ErrRateLimited
	}
	if errors.Is(err, xhttp.ErrDecode) {
		return fmt.Errorf("%v: %w", err, drepo.ErrMalformedResponse)
	}
	return err
}
