// Package features implements the Feature Extractor: a deterministic pure
// function from a parsed request to a named, bounded numeric feature map,
// plus a stable hashed projection of that map into a fixed-size vector for
// downstream model consumption.
package features

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/novinsdk/sentinel-go/internal/model"
	"github.com/spaolacci/murmur3"
)

// VectorSize is the fixed width of the hashed feature vector.
const VectorSize = 16384

var (
	hourTable    = cyclicTable(24)
	weekdayTable = cyclicTable(7)
	monthTable   = cyclicTable(12)
)

type cyclicPair struct{ sin, cos float64 }

// cyclicTable precomputes raw sin/cos pairs (bounded to [-1,1], not
// renormalized to [0,1]) so rule conditions like "hour_cos<-0.5" read
// naturally against the trigonometric value.
func cyclicTable(n int) []cyclicPair {
	table := make([]cyclicPair, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		table[i] = cyclicPair{sin: math.Sin(angle), cos: math.Cos(angle)}
	}
	return table
}

// ParseTimestamp parses a unix-seconds or ISO8601 timestamp string, falling
// back to wall clock on failure or absence.
func ParseTimestamp(raw string, now func() time.Time) time.Time {
	if raw == "" {
		return now()
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Unix(int64(secs), 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC()
	}
	return now()
}

// NormalizeEventType maps a raw event type string onto the closed feature
// vocabulary, per spec 4.1: substrings "motion" and "glass" take priority
// over exact matches so sensor-vendor variants still classify correctly.
func NormalizeEventType(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "motion"):
		return "motion"
	case strings.Contains(lower, "glass"):
		return "glassbreak"
	default:
		return lower
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Extract computes the named feature map for a request. now supplies wall
// clock for timestamp fallback so callers can inject a fixed clock in
// tests.
func Extract(req *model.Request, now func() time.Time) model.NamedFeatures {
	if now == nil {
		now = time.Now
	}
	ts := ParseTimestamp(req.Timestamp, now)
	f := make(model.NamedFeatures, 48)

	addTemporal(f, ts, req.ActivityHistory)
	addSpatial(f, req)
	addEvent(f, req)
	addBehavioral(f, req)
	addEnvironmental(f, req, ts)
	addOccupancy(f, req)

	return f
}

// addOccupancy adds a one-hot home_mode encoding used directly by the rule
// engine's away_mode condition and by the CoT scorer/Bayesian evidence
// table.
func addOccupancy(f model.NamedFeatures, req *model.Request) {
	f["home_mode"] = 0
	f["away_mode"] = 0
	f["vacation_mode"] = 0
	switch req.HomeMode {
	case model.HomeModeHome:
		f["home_mode"] = 1
	case model.HomeModeAway:
		f["away_mode"] = 1
	case model.HomeModeVacation:
		f["vacation_mode"] = 1
	}
}

func addTemporal(f model.NamedFeatures, ts time.Time, history []model.ActivityRecord) {
	// Phase-shifted by 12h so midnight lands at the trough (cos=-1) and noon
	// at the peak (cos=1): hour_cos<-0.5 then reads as "nighttime" the way
	// the rule engine, Bayesian evidence table, and CoT scorer expect.
	hour := hourTable[(ts.Hour()+12)%24]
	weekday := weekdayTable[int(ts.Weekday())]
	month := monthTable[int(ts.Month())-1]

	f["hour_sin"] = hour.sin
	f["hour_cos"] = hour.cos
	f["weekday_sin"] = weekday.sin
	f["weekday_cos"] = weekday.cos
	f["month_sin"] = month.sin
	f["month_cos"] = month.cos

	if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
		f["is_weekend"] = 1
	} else {
		f["is_weekend"] = 0
	}

	f["hours_since_last_event"] = hoursSinceLastEvent(ts, history)
}

func hoursSinceLastEvent(ts time.Time, history []model.ActivityRecord) float64 {
	var latest time.Time
	for _, a := range history {
		if a.Timestamp.After(latest) && !a.Timestamp.After(ts) {
			latest = a.Timestamp
		}
	}
	if latest.IsZero() {
		return 1
	}
	hours := ts.Sub(latest).Hours()
	return clamp(hours, 0, 24) / 24
}

func addSpatial(f model.NamedFeatures, req *model.Request) {
	var lat, lon float64
	if req.Location != nil {
		if req.Location.Latitude != nil {
			lat = clamp(*req.Location.Latitude, -90, 90)
		}
		if req.Location.Longitude != nil {
			lon = clamp(*req.Location.Longitude, -180, 180)
		}
	}
	f["latitude_norm"] = (lat + 90) / 180
	f["longitude_norm"] = (lon + 180) / 360

	if req.CrimeContext != nil {
		f["crime_rate_24h"] = clamp(req.CrimeContext.CrimeRate24h, 0, 1)
		f["crime_rate_7d"] = clamp(req.CrimeContext.CrimeRate7d, 0, 1)
		f["crime_rate_30d"] = clamp(req.CrimeContext.CrimeRate30d, 0, 1)
		f["nearby_incidents"] = clamp(float64(req.CrimeContext.NearbyIncidents)/20, 0, 1)
		f["crime_severity"] = clamp(req.CrimeContext.AvgSeverity, 0, 1)
	}
}

var eventTypeSlots = []string{"motion", "door", "window", "sound", "face", "glassbreak", "pet", "fire", "vehicle"}

func addEvent(f model.NamedFeatures, req *model.Request) {
	ev := req.PrimaryEvent()
	normalized := NormalizeEventType(ev.Type)

	for _, slot := range eventTypeSlots {
		f["event_"+slot] = 0
	}
	if contains(eventTypeSlots, normalized) {
		f["event_"+normalized] = 1
	}

	if ev.Metadata != nil && strings.Contains(strings.ToLower(ev.Metadata.SoundType), "glass") {
		f["event_glassbreak"] = 1
	}

	f["event_confidence"] = clamp(ev.Confidence, 0, 1)

	var duration, intensity float64
	var sensors int
	if ev.Metadata != nil {
		duration = ev.Metadata.DurationS
		intensity = ev.Metadata.Intensity
		sensors = ev.Metadata.SensorsTriggered
	}
	f["event_duration"] = clamp(duration, 0, 600) / 600
	f["event_intensity"] = clamp(intensity, 0, 1)
	f["sensor_count"] = clamp(float64(sensors), 0, 6) / 6
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func addBehavioral(f model.NamedFeatures, req *model.Request) {
	f["recent_activity_freq"] = clamp(float64(len(req.ActivityHistory))/20, 0, 1)

	if req.UserRiskProfile != nil {
		f["user_risk_score"] = clamp(req.UserRiskProfile.RiskScore, 0, 1)
		f["user_trust_level"] = clamp(req.UserRiskProfile.TrustLevel, 0, 1)
	} else {
		f["user_trust_level"] = 0.5
	}

	f["activity_consistency"] = activityConsistency(req.ActivityHistory)
}

// activityConsistency is 1 − stddev(hours-of-day)/12 clamped to [0,1] when
// n≥2 observations are present, else the neutral default 0.5.
func activityConsistency(history []model.ActivityRecord) float64 {
	if len(history) < 2 {
		return 0.5
	}
	hours := make([]float64, len(history))
	var sum float64
	for i, a := range history {
		h := float64(a.Timestamp.Hour()) + float64(a.Timestamp.Minute())/60
		hours[i] = h
		sum += h
	}
	mean := sum / float64(len(hours))
	var variance float64
	for _, h := range hours {
		variance += (h - mean) * (h - mean)
	}
	variance /= float64(len(hours))
	stddev := math.Sqrt(variance)
	return clamp(1-stddev/12, 0, 1)
}

func addEnvironmental(f model.NamedFeatures, req *model.Request, ts time.Time) {
	if req.Weather != nil {
		f["temperature"] = clamp((req.Weather.TemperatureC+20)/60, 0, 1)
		f["humidity"] = clamp(req.Weather.HumidityPct/100, 0, 1)
		f["precipitation"] = clamp(req.Weather.PrecipMM/50, 0, 1)
		f["wind_speed"] = clamp(req.Weather.WindSpeedKPH/100, 0, 1)
	}

	hour := ts.Hour()
	if hour >= 7 && hour < 19 {
		f["is_daylight"] = 1
	} else {
		f["is_daylight"] = 0
	}

	for _, season := range []string{"winter", "spring", "summer", "fall"} {
		f["season_"+season] = 0
	}
	f["season_"+seasonOf(ts.Month())] = 1
}

func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

// ExtractVector projects features into a fixed-size vector by hashing each
// feature name with MurmurHash3 x86-32 (seed 0) modulo VectorSize and
// summing colliding values; the hash is bit-exact across implementations
// for audit reproducibility.
func ExtractVector(f model.NamedFeatures) [VectorSize]float32 {
	var vec [VectorSize]float32
	for name, value := range f {
		slot := murmur3.Sum32WithSeed([]byte(name), 0) % VectorSize
		vec[slot] += float32(value)
	}
	return vec
}
