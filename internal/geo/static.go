package geo

import (
	"context"
	"strings"
)

// Static geocodes against a fixed gazetteer. It never makes network calls.
type Static struct {
	places map[string]Coordinate
}

// NewStatic returns a gazetteer with the built-in city table plus extra
// entries. Extra keys are matched case-insensitively.
func NewStatic(extra map[string]Coordinate) *Static {
	places := make(map[string]Coordinate, len(builtinPlaces)+len(extra))
	for k, v := range builtinPlaces {
		places[k] = v
	}
	for k, v := range extra {
		places[normalizePlace(k)] = v
	}
	return &Static{places: places}
}

// Name returns the provider name.
func (s *Static) Name() string { return "static" }

// Geocode matches the whole query first, then each comma-separated part from
// the most specific ("Austin, TX, USA" tries "austin").
func (s *Static) Geocode(ctx context.Context, query string) (Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return Unresolved, err
	}
	q := normalizePlace(query)
	if c, ok := s.places[q]; ok {
		return c, nil
	}
	for _, part := range strings.Split(q, ",") {
		if c, ok := s.places[strings.TrimSpace(part)]; ok {
			return c, nil
		}
	}
	return Unresolved, ErrNoMatch
}

func normalizePlace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var builtinPlaces = map[string]Coordinate{
	"new york":      At(40.7128, -74.0060),
	"san francisco": At(37.7749, -122.4194),
	"los angeles":   At(34.0522, -118.2437),
	"seattle":       At(47.6062, -122.3321),
	"chicago":       At(41.8781, -87.6298),
	"austin":        At(30.2672, -97.7431),
	"boston":        At(42.3601, -71.0589),
	"denver":        At(39.7392, -104.9903),
	"atlanta":       At(33.7490, -84.3880),
	"miami":         At(25.7617, -80.1918),
	"toronto":       At(43.6532, -79.3832),
	"vancouver":     At(49.2827, -123.1207),
	"mexico city":   At(19.4326, -99.1332),
	"sao paulo":     At(-23.5505, -46.6333),
	"london":        At(51.5074, -0.1278),
	"manchester":    At(53.4808, -2.2426),
	"dublin":        At(53.3498, -6.2603),
	"paris":         At(48.8566, 2.3522),
	"berlin":        At(52.5200, 13.4050),
	"munich":        At(48.1351, 11.5820),
	"amsterdam":     At(52.3676, 4.9041),
	"madrid":        At(40.4168, -3.7038),
	"lisbon":        At(38.7223, -9.1393),
	"rome":          At(41.9028, 12.4964),
	"zurich":        At(47.3769, 8.5417),
	"stockholm":     At(59.3293, 18.0686),
	"warsaw":        At(52.2297, 21.0122),
	"istanbul":      At(41.0082, 28.9784),
	"cairo":         At(30.0444, 31.2357),
	"lagos":         At(6.5244, 3.3792),
	"nairobi":       At(-1.2921, 36.8219),
	"johannesburg":  At(-26.2041, 28.0473),
	"dubai":         At(25.2048, 55.2708),
	"mumbai":        At(19.0760, 72.8777),
	"bangalore":     At(12.9716, 77.5946),
	"singapore":     At(1.3521, 103.8198),
	"hong kong":     At(22.3193, 114.1694),
	"tokyo":         At(35.6762, 139.6503),
	"seoul":         At(37.5665, 126.9780),
	"sydney":        At(-33.8688, 151.2093),
	"melbourne":     At(-37.8136, 144.9631),
}
