package portfolio

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metric is a single named measurement. Values are opaque display strings.
type Metric struct {
	Key   string
	Value string
}

// MetricEntry is a metric with its human-readable label.
type MetricEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Metrics holds metrics in the order the document lists them.
type Metrics []Metric

// Entries returns the metrics with display labels attached.
func (m Metrics) Entries() (entries []MetricEntry) {
	entries = make([]MetricEntry, len(m))
	for i, metric := range m {
		entries[i] = MetricEntry{
			Key:   metric.Key,
			Label: MetricLabel(metric.Key),
			Value: metric.Value,
		}
	}
	return entries
}

// MetricLabel turns a snake_case metric key into a title-cased label,
// e.g. "setup_time_reduction" becomes "Setup Time Reduction".
func MetricLabel(key string) (label string) {
	caser := cases.Title(language.English, cases.NoLower)
	label = caser.String(strings.ReplaceAll(key, "_", " "))
	return label
}

// UnmarshalJSON decodes the metrics object keeping its key order. Non-string
// values are kept as their raw JSON text.
func (m *Metrics) UnmarshalJSON(data []byte) (err error) {
	metrics := make(Metrics, 0)

	err = decodeObject(data, func(key string, raw json.RawMessage) (fnErr error) {
		var value string
		if json.Unmarshal(raw, &value) != nil {
			value = string(raw)
		}

		for i := range metrics {
			if metrics[i].Key == key {
				metrics[i].Value = value
				return fnErr
			}
		}

		metrics = append(metrics, Metric{Key: key, Value: value})
		return fnErr
	})
	if err != nil {
		return err
	}

	*m = metrics
	return err
}

// MarshalJSON encodes the metrics as a JSON object in order.
func (m Metrics) MarshalJSON() (data []byte, err error) {
	keys := make([]string, len(m))
	for i, metric := range m {
		keys[i] = metric.Key
	}

	data, err = encodeObject(keys, func(i int) (v interface{}) {
		v = m[i].Value
		return v
	})
	return data, err
}
