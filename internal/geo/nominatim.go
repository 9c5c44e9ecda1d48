package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Nominatim geocodes through an OpenStreetMap Nominatim search endpoint.
type Nominatim struct {
	client *resty.Client
	email  string
}

// NewNominatim returns a client for the Nominatim instance at baseURL.
// Nominatim's usage policy requires an identifying userAgent.
func NewNominatim(baseURL, userAgent, email string, timeout time.Duration) *Nominatim {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	return &Nominatim{client: client, email: email}
}

// Name returns the provider name.
func (n *Nominatim) Name() string { return "nominatim" }

// Geocode returns the best match for query.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Coordinate, error) {
	params := map[string]string{
		"q":      query,
		"format": "jsonv2",
		"limit":  "1",
	}
	if n.email != "" {
		params["email"] = n.email
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/search")
	if err != nil {
		return Unresolved, fmt.Errorf("nominatim request: %w", err)
	}
	if resp.IsError() {
		return Unresolved, &StatusError{Code: resp.StatusCode(), Body: truncateBody(resp.String())}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return Unresolved, fmt.Errorf("nominatim: invalid JSON response")
	}
	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return Unresolved, ErrNoMatch
	}
	lat, lon := first.Get("lat"), first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return Unresolved, fmt.Errorf("nominatim: result without coordinates")
	}
	return At(lat.Float(), lon.Float()), nil
}

func truncateBody(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max]
	}
	return s
}
