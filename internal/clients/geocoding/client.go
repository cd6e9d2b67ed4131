// Package geocoding resolves free-text postal addresses through the Google
// Geocoding API.
package geocoding

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ivibez/portal/internal/clientdata"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"
	defaultTimeout = 10 * time.Second

	statusOK = "OK"

	componentState  = "administrative_area_level_1"
	componentCounty = "administrative_area_level_2"
	componentCity   = "locality"

	cacheTable = "geocoding"
)

// Result is a normalized geocoding match.
type Result struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	State            string  `json:"state"`  // two-letter code, empty when unknown
	County           string  `json:"county"` // long name
	City             string  `json:"city"`   // long name
}

// Error reports a failed lookup. Callers treat every Error as operational.
type Error struct {
	Address    string
	StatusCode int    // HTTP status, 0 when the request never completed
	Status     string // provider status, e.g. ZERO_RESULTS
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("geocoding failed: %s: %v", e.Message, e.Err)
	case e.Status != "":
		return fmt.Sprintf("geocoding failed: %s - %s", e.Status, e.Message)
	default:
		return "geocoding failed: " + e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	AddressComponents []addressComponent `json:"address_components"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

// Client is the Google Geocoding API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cacheRepo  *clientdata.Repository // optional
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewClient creates a new geocoding client.
// An empty baseURL or non-positive timeout selects the defaults.
func NewClient(apiKey, baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "geocoding").Logger(),
	}
}

// SetCache enables cache-first lookups. A nil repo or non-positive ttl disables caching.
func (c *Client) SetCache(repo *clientdata.Repository, ttl time.Duration) {
	if repo == nil || ttl <= 0 {
		c.cacheRepo = nil
		return
	}
	c.cacheRepo = repo
	c.cacheTTL = ttl
}

// Geocode resolves address to its first match. Fresh cached matches are
// returned without a request; otherwise it makes exactly one request and
// never retries. Failures are never cached and stale entries are never served.
func (c *Client) Geocode(address string) (*Result, error) {
	key := cacheKey(address)
	if cached, ok := c.getFromCache(key); ok {
		c.log.Debug().Str("address", address).Msg("Cache hit")
		return cached, nil
	}

	result, err := c.fetch(address)
	if err != nil {
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(cacheTable, key, result, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache geocoding result")
		}
	}

	return result, nil
}

func (c *Client) getFromCache(key string) (*Result, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, err := c.cacheRepo.GetIfFresh(cacheTable, key)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to read geocoding cache")
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warn().Err(err).Msg("Discarding unreadable geocoding cache entry")
		return nil, false
	}
	return &result, true
}

func (c *Client) fetch(address string) (*Result, error) {
	if c.apiKey == "" {
		return nil, &Error{Address: address, Message: "missing GOOGLE_MAPS_SERVER_KEY"}
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/geocode/json?" + params.Encode()

	c.log.Debug().Str("address", address).Msg("Geocoding address")

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, &Error{Address: address, Message: "request failed", Err: stripKey(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Address:    address,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP error: %d", resp.StatusCode),
		}
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{Address: address, StatusCode: resp.StatusCode, Message: "failed to parse response", Err: err}
	}

	if body.Status != statusOK {
		msg := body.ErrorMessage
		if msg == "" {
			msg = "No message"
		}
		return nil, &Error{Address: address, StatusCode: resp.StatusCode, Status: body.Status, Message: msg}
	}

	if len(body.Results) == 0 {
		return nil, &Error{Address: address, StatusCode: resp.StatusCode, Message: "no geocoding results found"}
	}

	first := body.Results[0]
	result := &Result{
		FormattedAddress: first.FormattedAddress,
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		State:            findComponent(first.AddressComponents, componentState, true),
		County:           findComponent(first.AddressComponents, componentCounty, false),
		City:             findComponent(first.AddressComponents, componentCity, false),
	}

	c.log.Debug().
		Str("formatted_address", result.FormattedAddress).
		Str("state", result.State).
		Msg("Geocoded address")

	return result, nil
}

func findComponent(components []addressComponent, componentType string, short bool) string {
	for _, comp := range components {
		for _, t := range comp.Types {
			if t != componentType {
				continue
			}
			if short {
				return comp.ShortName
			}
			return comp.LongName
		}
	}
	return ""
}

// cacheKey folds case and whitespace so trivially different spellings share an entry.
func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// stripKey drops the request URL (which carries the API key) from transport errors.
func stripKey(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
