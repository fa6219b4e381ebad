package taskrunner

import (
	"encoding/json"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// encodeBindings renders a set of (oid, value) pairs as the JSON list
// of pairs shape internal/handlers.decodeBindings expects — a GET
// produces a single-pair list, a WALK a multi-pair one.
func encodeBindings(bindings []model.Binding) (string, error) {
	pairs := make([][2]string, len(bindings))
	for i, b := range bindings {
		pairs[i] = [2]string{b.OID, b.Value}
	}
	out, err := json.Marshal(pairs)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
