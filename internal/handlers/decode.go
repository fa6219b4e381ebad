package handlers

import (
	"encoding/json"
	"fmt"
)

// decodeBindings parses a raw Result's val JSON into (oid, value)
// pairs. The Task Runner stores raw captures as a list of [oid,
// value] pairs, but older rows captured as a map of oid→value must
// also be accepted (SPEC_FULL.md §4.2.2 step 1).
func decodeBindings(raw string) ([][2]string, error) {
	var asPairs [][2]string
	if err := json.Unmarshal([]byte(raw), &asPairs); err == nil {
		return asPairs, nil
	}

	var asMap map[string]string
	if err := json.Unmarshal([]byte(raw), &asMap); err == nil {
		out := make([][2]string, 0, len(asMap))
		for oid, val := range asMap {
			out = append(out, [2]string{oid, val})
		}
		return out, nil
	}

	var asGeneric []interface{}
	if err := json.Unmarshal([]byte(raw), &asGeneric); err == nil {
		out := make([][2]string, 0, len(asGeneric))
		for _, item := range asGeneric {
			pair, ok := item.([]interface{})
			if !ok || len(pair) != 2 {
				continue
			}
			oid, _ := pair[0].(string)
			val := fmt.Sprintf("%v", pair[1])
			out = append(out, [2]string{oid, val})
		}
		return out, nil
	}

	return nil, fmt.Errorf("decode bindings: unrecognized JSON shape")
}
