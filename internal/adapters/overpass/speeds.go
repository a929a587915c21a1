package overpass

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

const mphToKPH = 1.609344

// Fallback speeds in km/h when a way carries no usable maxspeed tag.
var defaultSpeedKPH = map[string]float64{
	"motorway":       100,
	"motorway_link":  60,
	"trunk":          80,
	"trunk_link":     50,
	"primary":        65,
	"primary_link":   45,
	"secondary":      55,
	"secondary_link": 40,
	"tertiary":       45,
	"tertiary_link":  35,
	"unclassified":   35,
	"residential":    30,
	"living_street":  10,
	"service":        20,
	"road":           30,
	"track":          20,
	"busway":         40,
}

const (
	fallbackSpeedKPH = 30.0
	walkSpeedKPH     = 4.5
	bikeSpeedKPH     = 15.0
)

// speedKPH resolves the travel speed for a way: maxspeed when it parses, otherwise the
// highway default. Walk and bike networks use a flat travel speed.
func speedKPH(tags osm.Tags, networkType string) float64 {
	switch networkType {
	case NetworkWalk:
		return walkSpeedKPH
	case NetworkBike:
		return bikeSpeedKPH
	}

	if v, ok := parseMaxSpeed(tags.Find("maxspeed")); ok {
		return v
	}
	if v, ok := defaultSpeedKPH[tags.Find("highway")]; ok {
		return v
	}
	return fallbackSpeedKPH
}

// parseMaxSpeed handles "50", "30 mph" and ";"-separated lists, which are averaged.
// Symbolic values such as "none" or "walk" are rejected.
func parseMaxSpeed(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	parts := strings.Split(raw, ";")
	sum := 0.0
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		factor := 1.0
		if strings.HasSuffix(p, "mph") {
			factor = mphToKPH
			p = strings.TrimSpace(strings.TrimSuffix(p, "mph"))
		} else {
			p = strings.TrimSpace(strings.TrimSuffix(p, "km/h"))
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		sum += v * factor
	}
	return sum / float64(len(parts)), true
}

// travelTime converts meters at kph into seconds.
func travelTime(length, kph float64) float64 {
	if kph <= 0 {
		return 0
	}
	return length / (kph * 1000 / 3600)
}

// onewayDirection returns +1 for forward-only ways, -1 for reverse-only ways and 0 for
// two-way ways. Walk networks ignore oneway restrictions.
func onewayDirection(tags osm.Tags, networkType string) int {
	if networkType == NetworkWalk {
		return 0
	}

	switch strings.ToLower(tags.Find("oneway")) {
	case "yes", "true", "1":
		return 1
	case "-1", "reverse":
		return -1
	case "no", "false", "0":
		return 0
	}

	if j := tags.Find("junction"); j == "roundabout" || j == "circular" {
		return 1
	}
	if tags.Find("highway") == "motorway" {
		return 1
	}
	return 0
}
