// Copyright 2025 Certen Protocol
//
// Canonical JSON encoding for signed payloads. Any implementation must
// produce byte-identical output for equal value graphs: map keys are sorted
// recursively (not just at the top level), arrays retain element order, and
// numbers/strings/null follow encoding/json's default formatting.

package canonical

import (
	"encoding/json"
	"sort"
)

// Marshal encodes v as canonical JSON: recursively key-sorted, deterministic.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// Normalize takes arbitrary JSON bytes and re-encodes them canonically.
func Normalize(raw []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(sortValue(v))
}

// sortValue recursively sorts map keys; array element order is preserved.
func sortValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(map[string]interface{}, len(vv))
		for _, k := range keys {
			ordered[k] = sortValue(vv[k])
		}
		return ordered
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = sortValue(e)
		}
		return out
	default:
		return vv
	}
}

// Map builds a canonical JSON payload from an ordered list of key/value
// pairs. Callers use this instead of a struct when the signed subset of a
// larger type must exclude certain fields (e.g. BlockMetadata minus
// validationInfo, or an envelope minus its own clientSignature).
func Map(pairs ...KV) map[string]interface{} {
	m := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// KV is one canonical.Map entry.
type KV struct {
	Key   string
	Value interface{}
}

// Pair is a convenience constructor for KV.
func Pair(key string, value interface{}) KV {
	return KV{Key: key, Value: value}
}
