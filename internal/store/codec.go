package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// removedSentinel is the in-band removal marker used by the table form.
// A present sentinel means removed; an absent field means not removed.
// Keeping it as data (rather than a comment) lets it survive round
// trips through hand edits and re-encodes.
const removedSentinel = "--REMOVED--"

// Anomaly records a malformed record that was skipped during a parse.
// Anomalies never abort a read; they are logged and counted.
type Anomaly struct {
	Format string // "json" or "toml"
	Index  int    // position of the bad record in its file
	Reason string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s record %d: %s", a.Format, a.Index, a.Reason)
}

// jsonRecord is the wire shape of one entry in packages.json.
type jsonRecord struct {
	Name     string         `json:"name"`
	Manager  string         `json:"manager"`
	Action   string         `json:"action"`
	Date     string         `json:"date"`
	Removed  bool           `json:"removed"`
	Scope    string         `json:"scope"`
	Version  string         `json:"version,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// tomlRecord is the wire shape of one [[package]] table in packages.toml.
// Removed is the string sentinel, not a bool, so that a removal is
// distinguishable from a field someone deleted while hand-editing.
type tomlRecord struct {
	Name     string         `toml:"name"`
	Manager  string         `toml:"manager"`
	Action   string         `toml:"action"`
	Date     string         `toml:"date"`
	Removed  string         `toml:"removed,omitempty"`
	Scope    string         `toml:"scope"`
	Version  string         `toml:"version,omitempty"`
	Metadata map[string]any `toml:"metadata,omitempty"`
}

type tomlDocument struct {
	Package []tomlRecord `toml:"package"`
}

// encodeJSON renders the full record sequence as an indented JSON array
// with a trailing newline, matching what a careful hand edit would look
// like.
func encodeJSON(entries []pkglog.Entry) ([]byte, error) {
	records := make([]jsonRecord, len(entries))
	for i, e := range entries {
		records[i] = jsonRecord{
			Name:     e.Name,
			Manager:  e.Manager,
			Action:   string(e.Action),
			Date:     e.Timestamp.Format(time.RFC3339),
			Removed:  e.Removed,
			Scope:    string(e.Scope),
			Version:  e.Version,
			Metadata: e.Metadata,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, newCodecError("", "encode json records", err)
	}
	return buf.Bytes(), nil
}

// decodeJSON parses a packages.json payload. Individual malformed
// records are skipped and reported as anomalies; a payload that is not
// a JSON array at all is a codec error.
func decodeJSON(data []byte) ([]pkglog.Entry, []Anomaly, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, newCodecError("", "file is not a json array", err)
	}

	entries := make([]pkglog.Entry, 0, len(raws))
	var anomalies []Anomaly
	for i, raw := range raws {
		var rec jsonRecord
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			anomalies = append(anomalies, Anomaly{Format: "json", Index: i, Reason: err.Error()})
			continue
		}
		entry, err := recordToEntry(rec.Name, rec.Manager, rec.Action, rec.Date, rec.Scope, rec.Version, rec.Removed, rec.Metadata)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Format: "json", Index: i, Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, anomalies, nil
}

// encodeTOML renders the full record sequence as [[package]] tables.
func encodeTOML(entries []pkglog.Entry) ([]byte, error) {
	doc := tomlDocument{Package: make([]tomlRecord, len(entries))}
	for i, e := range entries {
		rec := tomlRecord{
			Name:     e.Name,
			Manager:  e.Manager,
			Action:   string(e.Action),
			Date:     e.Timestamp.Format(time.RFC3339),
			Scope:    string(e.Scope),
			Version:  e.Version,
			Metadata: e.Metadata,
		}
		if e.Removed {
			rec.Removed = removedSentinel
		}
		doc.Package[i] = rec
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, newCodecError("", "encode toml records", err)
	}
	return data, nil
}

// decodeTOML parses a packages.toml payload. As with JSON, bad records
// are skipped with anomalies; an unparseable document is a codec error.
func decodeTOML(data []byte) ([]pkglog.Entry, []Anomaly, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, newCodecError("", "file is not a toml record sequence", err)
	}

	entries := make([]pkglog.Entry, 0, len(doc.Package))
	var anomalies []Anomaly
	for i, rec := range doc.Package {
		removed := false
		switch rec.Removed {
		case "":
		case removedSentinel:
			removed = true
		default:
			anomalies = append(anomalies, Anomaly{
				Format: "toml", Index: i,
				Reason: fmt.Sprintf("unrecognized removal marker %q", rec.Removed),
			})
			continue
		}
		entry, err := recordToEntry(rec.Name, rec.Manager, rec.Action, rec.Date, rec.Scope, rec.Version, removed, rec.Metadata)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Format: "toml", Index: i, Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, anomalies, nil
}

// recordToEntry validates and converts one decoded record. Shared by
// both formats so they cannot drift on what counts as well-formed.
func recordToEntry(name, manager, action, date, scope, version string, removed bool, metadata map[string]any) (pkglog.Entry, error) {
	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return pkglog.Entry{}, fmt.Errorf("bad date %q: %w", date, err)
	}

	entry := pkglog.Entry{
		Name:      name,
		Manager:   manager,
		Action:    pkglog.Action(action),
		Timestamp: ts,
		Removed:   removed,
		Scope:     pkglog.Scope(scope),
		Version:   version,
		Metadata:  normalizeMetadata(metadata),
	}
	if err := entry.Validate(); err != nil {
		return pkglog.Entry{}, err
	}
	return entry, nil
}

// normalizeMetadata maps decoded scalar values onto the canonical
// in-memory types: integral numbers become int64, other numbers
// float64. This keeps decode(encode(e)) == e across both formats
// regardless of how each codec represents numbers.
func normalizeMetadata(raw map[string]any) pkglog.Metadata {
	if len(raw) == 0 {
		return nil
	}
	md := make(pkglog.Metadata, len(raw))
	for k, v := range raw {
		switch n := v.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				md[k] = i
			} else if f, err := n.Float64(); err == nil {
				md[k] = f
			} else {
				md[k] = n.String()
			}
		case int:
			md[k] = int64(n)
		case float64:
			if n == float64(int64(n)) {
				md[k] = int64(n)
			} else {
				md[k] = n
			}
		default:
			md[k] = v
		}
	}
	return md
}
