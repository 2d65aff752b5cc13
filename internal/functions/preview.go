package functions

import (
	"encoding/json"
	"fmt"
	"sort"

	"algogrid/internal/grid"
)

// PreviewRequest builds the request one resource call would issue without
// sending it: URL, headers, JSON body and a ready-to-run curl command. The
// body and curl keep the real key so the command works as-is; the API Key
// row shows it masked.
func (s *Service) PreviewRequest(resource string, params map[string]string) grid.Grid {
	st := s.store.Snapshot()
	if !st.HasKey() {
		return grid.ErrorGrid(errNoAPIKey)
	}
	if resource == "" {
		return grid.ErrorGrid("resource is required")
	}

	payload := map[string]string{"apikey": st.APIKey}
	for k, v := range params {
		payload[k] = v
	}

	// map marshaling sorts keys, so the body is deterministic
	body, err := json.Marshal(payload)
	if err != nil {
		return grid.ErrorGrid(fmt.Sprintf("JSON Decode Error: %s", err))
	}

	endpoint := st.EndpointURL(resource)
	g := grid.Grid{
		{"URL", endpoint},
		{"Method", "POST"},
		{"Content-Type", "application/json"},
		{"API Key", st.MaskedKey()},
		{"JSON Body", string(body)},
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		g = append(g, []string{"Param: " + k, params[k]})
	}

	curl := fmt.Sprintf(`curl -X POST "%s" -H "Content-Type: application/json" -d '%s'`, endpoint, body)
	g = append(g, []string{"Curl Command", curl})
	return g
}
