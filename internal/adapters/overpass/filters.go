package overpass

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/paulmach/osm"
)

// Supported network types.
const (
	NetworkDrive        = "drive"
	NetworkDriveService = "drive_service"
	NetworkWalk         = "walk"
	NetworkBike         = "bike"
	NetworkAll          = "all"
	NetworkAllPrivate   = "all_private"
)

// clause is one Overpass tag condition: either key presence or a negated regex on its value.
type clause struct {
	key     string
	exclude []string
	re      *regexp.Regexp
}

func has(key string) clause { return clause{key: key} }

func not(key string, values ...string) clause {
	return clause{
		key:     key,
		exclude: values,
		re:      regexp.MustCompile(strings.Join(values, "|")),
	}
}

func (c clause) ql() string {
	if len(c.exclude) == 0 {
		return fmt.Sprintf(`[%q]`, c.key)
	}
	return fmt.Sprintf(`[%q!~%q]`, c.key, strings.Join(c.exclude, "|"))
}

// match follows Overpass semantics: `!~` also matches ways that lack the key.
func (c clause) match(tags osm.Tags) bool {
	if len(c.exclude) == 0 {
		return tags.HasTag(c.key)
	}
	v := tags.Find(c.key)
	return v == "" || !c.re.MatchString(v)
}

// Filter selects the ways that make up one network type.
type Filter []clause

func (f Filter) QL() string {
	var b strings.Builder
	for _, c := range f {
		b.WriteString(c.ql())
	}
	return b.String()
}

func (f Filter) Match(tags osm.Tags) bool {
	for _, c := range f {
		if !c.match(tags) {
			return false
		}
	}
	return true
}

var filters = map[string]Filter{
	NetworkDrive: {
		has("highway"),
		not("area", "yes"),
		not("access", "private"),
		not("highway", "abandoned", "bridleway", "bus_guideway", "construction", "corridor", "cycleway",
			"elevator", "escalator", "footway", "no", "path", "pedestrian", "planned", "platform",
			"proposed", "raceway", "razed", "service", "steps", "track"),
		not("motor_vehicle", "no"),
		not("motorcar", "no"),
		not("service", "alley", "driveway", "emergency_access", "parking", "parking_aisle", "private"),
	},
	NetworkDriveService: {
		has("highway"),
		not("area", "yes"),
		not("access", "private"),
		not("highway", "abandoned", "bridleway", "bus_guideway", "construction", "corridor", "cycleway",
			"elevator", "escalator", "footway", "no", "path", "pedestrian", "planned", "platform",
			"proposed", "raceway", "razed", "steps", "track"),
		not("motor_vehicle", "no"),
		not("motorcar", "no"),
		not("service", "emergency_access", "parking", "parking_aisle", "private"),
	},
	NetworkWalk: {
		has("highway"),
		not("area", "yes"),
		not("access", "private"),
		not("highway", "abandoned", "bus_guideway", "construction", "cycleway", "motor", "no",
			"planned", "platform", "proposed", "raceway", "razed"),
		not("foot", "no"),
		not("service", "private"),
	},
	NetworkBike: {
		has("highway"),
		not("area", "yes"),
		not("access", "private"),
		not("highway", "abandoned", "bus_guideway", "construction", "corridor", "elevator",
			"escalator", "footway", "motor", "no", "planned", "platform", "proposed", "raceway",
			"razed", "steps"),
		not("bicycle", "no"),
		not("service", "private"),
	},
	NetworkAll: {
		has("highway"),
		not("area", "yes"),
		not("access", "private"),
		not("highway", "abandoned", "construction", "no", "planned", "platform", "proposed",
			"raceway", "razed"),
		not("service", "private"),
	},
	NetworkAllPrivate: {
		has("highway"),
		not("area", "yes"),
		not("highway", "abandoned", "construction", "no", "planned", "platform", "proposed",
			"raceway", "razed"),
	},
}

// FilterFor returns the way filter for networkType.
func FilterFor(networkType string) (Filter, error) {
	f, ok := filters[networkType]
	if !ok {
		return nil, fmt.Errorf("unsupported network type %q (want one of %s)",
			networkType, strings.Join(NetworkTypes(), ", "))
	}
	return f, nil
}

func NetworkTypes() []string {
	out := make([]string, 0, len(filters))
	for k := range filters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
