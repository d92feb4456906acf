package services

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
	"golang.org/x/net/publicsuffix"
)

// One troy ounce in grams, used to derive gram gold prices from the ounce price.
const gramsPerOunce = 31.1034768

const quoteCacheKey = "live_quotes"

// tcmbDocument maps the TCMB daily rates XML (Tarih_Date root element).
type tcmbDocument struct {
	XMLName    xml.Name       `xml:"Tarih_Date"`
	Currencies []tcmbCurrency `xml:"Currency"`
}

type tcmbCurrency struct {
	Code         string `xml:"CurrencyCode,attr"`
	ForexBuying  string `xml:"ForexBuying"`
	ForexSelling string `xml:"ForexSelling"`
}

type priceServiceImpl struct {
	httpClient *http.Client
	feedURL    string
	ounceUSD   float64
	quoteCache *cache.Cache
}

// NewPriceService creates the price feed client. The HTTP client carries a
// cookie jar and a bounded timeout; a feed that answers slowly is treated
// the same as one that is down.
func NewPriceService() PriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	client := &http.Client{
		Jar:     jar,
		Timeout: config.Cfg.PriceFeedTimeout,
	}

	return &priceServiceImpl{
		httpClient: client,
		feedURL:    config.Cfg.PriceFeedURL,
		ounceUSD:   config.Cfg.GoldOunceUSD,
		quoteCache: cache.New(config.Cfg.PriceCacheTTL, 2*config.Cfg.PriceCacheTTL),
	}
}

// FallbackQuotes is the fixed table substituted whenever the feed cannot be
// reached or parsed. Trade and report paths must keep working on these.
func FallbackQuotes() map[string]models.Quote {
	pair := func(buy, sell float64) models.Quote {
		return models.Quote{Buy: &buy, Sell: &sell}
	}
	return map[string]models.Quote{
		"USD": pair(34.0, 34.5),
		"EUR": pair(37.0, 37.5),
		"GA":  pair(3000.0, 3050.0),
	}
}

// GetQuotes returns the current quote table. Live fetches are cached for a
// short TTL; any failure degrades to the fallback table and is never
// surfaced to the caller.
func (s *priceServiceImpl) GetQuotes() map[string]models.Quote {
	if cached, found := s.quoteCache.Get(quoteCacheKey); found {
		if quotes, ok := cached.(map[string]models.Quote); ok {
			return quotes
		}
	}

	quotes, err := s.fetchQuotes()
	if err != nil {
		logger.L.Warn("Price feed unavailable, using fallback table", "error", err, "url", s.feedURL)
		return FallbackQuotes()
	}

	s.quoteCache.Set(quoteCacheKey, quotes, cache.DefaultExpiration)
	return quotes
}

func (s *priceServiceImpl) fetchQuotes() (map[string]models.Quote, error) {
	req, err := http.NewRequest("GET", s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates feed returned non-OK status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates response: %w", err)
	}

	var doc tcmbDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rates XML: %w", err)
	}

	quotes := make(map[string]models.Quote, len(doc.Currencies)+3)
	for _, cur := range doc.Currencies {
		quotes[cur.Code] = models.Quote{
			Buy:  parseRate(cur.ForexBuying),
			Sell: parseRate(cur.ForexSelling),
		}
	}

	s.deriveGoldQuotes(quotes)
	return quotes, nil
}

// deriveGoldQuotes computes gram gold prices from the USD rate and the
// configured ounce price. The feed itself carries no bullion quotes.
func (s *priceServiceImpl) deriveGoldQuotes(quotes map[string]models.Quote) {
	usd, ok := quotes["USD"]
	if !ok || usd.Sell == nil || *usd.Sell <= 0 {
		return
	}

	gramHas := s.ounceUSD * *usd.Sell / gramsPerOunce

	pair := func(buy, sell float64) models.Quote {
		b, s2 := utils.RoundFloat(buy, 2), utils.RoundFloat(sell, 2)
		return models.Quote{Buy: &b, Sell: &s2}
	}

	// GA is 24k gram gold; C22/C14 scale by purity with a wider spread.
	quotes["GA"] = pair(gramHas*0.995, gramHas*1.005)
	quotes["C22"] = pair(gramHas*0.916*0.98, gramHas*0.916*1.02)
	quotes["C14"] = pair(gramHas*0.585*0.97, gramHas*0.585*1.05)
}

func parseRate(raw string) *float64 {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &value
}
