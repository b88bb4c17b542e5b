package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SzaboCristian/stock-market/internal/models"
)

const (
	yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooChartResponse is the top-level v8 chart response. OHLCV arrays hold
// nulls for sessions without trades, hence the pointers.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeName         string `json:"exchangeName"`
		FullExchangeName     string `json:"fullExchangeName"`
		InstrumentType       string `json:"instrumentType"`
		LongName             string `json:"longName"`
		ShortName            string `json:"shortName"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// YahooProvider fetches daily history from the Yahoo Finance v8 chart API.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance provider. An empty baseURL
// selects the public endpoint.
func NewYahooProvider(httpClient *http.Client, baseURL string) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooChartURL
	}
	return &YahooProvider{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// FetchHistory fetches daily bars for [from, to].
func (p *YahooProvider) FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	from, to = models.Day(from), models.Day(to)
	if to.Before(from) {
		return nil, nil
	}

	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("events", "history")
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	// period2 is exclusive on Yahoo's side; extend it past the last day.
	params.Set("period2", strconv.FormatInt(to.Add(24*time.Hour).Unix(), 10))

	result, found, err := p.chart(ctx, symbol, params)
	if err != nil || !found {
		return nil, err
	}
	return parseBars(symbol, result, from, to)
}

// Lookup fetches the chart metadata of symbol.
func (p *YahooProvider) Lookup(ctx context.Context, symbol string) (*StockInfo, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "1d")

	result, found, err := p.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSymbolNotFound
	}

	meta := result.Meta
	info := &StockInfo{
		Symbol:         strings.ToUpper(symbol),
		Name:           meta.LongName,
		Exchange:       meta.FullExchangeName,
		Currency:       meta.Currency,
		InstrumentType: meta.InstrumentType,
	}
	if info.Name == "" {
		info.Name = strings.TrimRight(meta.ShortName, " -")
	}
	if info.Exchange == "" {
		info.Exchange = meta.ExchangeName
	}
	return info, nil
}

// chart performs one chart request. found is false when Yahoo reports the
// symbol as unknown or returns no result.
func (p *YahooProvider) chart(ctx context.Context, symbol string, params url.Values) (*yahooChartResult, bool, error) {
	u := p.baseURL + "/" + url.PathEscape(strings.ToUpper(symbol)) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, false, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("decoding response: %w", err)
	}

	if e := chartResp.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") || resp.StatusCode == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("yahoo api error: %s - %s", e.Code, e.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, false, nil
	}
	return &chartResp.Chart.Result[0], true, nil
}

// parseBars converts a chart result to daily bars. Bars are dated by the
// exchange-local calendar day, stored as UTC midnight. Bars with a missing
// price are dropped, a missing volume counts as zero.
func parseBars(symbol string, result *yahooChartResult, from, to time.Time) ([]models.PricePoint, error) {
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Close) != n || len(quote.Volume) != n {
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	byDate := make(map[time.Time]models.PricePoint, n)
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		y, m, d := time.Unix(ts, 0).In(loc).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if date.Before(from) || date.After(to) {
			continue
		}
		var volume int64
		if quote.Volume[i] != nil {
			volume = int64(math.Round(*quote.Volume[i]))
		}
		byDate[date] = models.PricePoint{
			Symbol: strings.ToUpper(symbol),
			Date:   date,
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		}
	}

	points := make([]models.PricePoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
