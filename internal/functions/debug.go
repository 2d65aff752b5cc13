package functions

import (
	"sort"
	"strconv"

	"algogrid/internal/grid"
	"algogrid/internal/openalgo"
)

// LastRequest renders the diagnostic record of the most recent request. The
// API key is always masked.
func (s *Service) LastRequest() grid.Grid {
	req, ok := s.client.Debug().LastRequest()
	if !ok {
		return grid.Grid{{"No requests made yet"}}
	}

	g := grid.Grid{
		{"Property", "Value"},
		{"Request ID", req.ID},
		{"Sequence", strconv.Itoa(req.Seq)},
		{"Timestamp", req.Timestamp.Format(grid.TimestampLayout)},
		{"Endpoint", req.Endpoint},
		{"API Key", maskedPayloadKey(req.Payload)},
	}
	for _, k := range sortedParamKeys(req.Payload) {
		g = append(g, []string{"Param: " + k, stringifyParam(req.Payload[k])})
	}
	return g
}

// LastResponse renders the diagnostic record of the most recent response.
func (s *Service) LastResponse() grid.Grid {
	resp, ok := s.client.Debug().LastResponse()
	if !ok {
		return grid.Grid{{"No responses received yet"}}
	}

	g := grid.Grid{
		{"Property", "Value"},
		{"Request ID", resp.ID},
		{"Sequence", strconv.Itoa(resp.Seq)},
		{"Timestamp", resp.Timestamp.Format(grid.TimestampLayout)},
	}
	if resp.StatusCode > 0 {
		g = append(g, []string{"Status Code", strconv.Itoa(resp.StatusCode)})
	}
	if resp.Err != "" {
		g = append(g, []string{"Error", resp.Err})
		return g
	}

	g = append(g, []string{"Response Type", "Success"})
	if om, ok := resp.Body.(*grid.OrderedMap); ok {
		g = append(g, summarizeBody(om)...)
	}
	return g
}

// FullLog renders the combined request/response view.
func (s *Service) FullLog() grid.Grid {
	debug := s.client.Debug()
	req, haveReq := debug.LastRequest()
	resp, haveResp := debug.LastResponse()
	if !haveReq && !haveResp {
		return grid.Grid{{"No API calls made yet"}}
	}

	g := grid.Grid{{"Debug Log", "Details"}}

	if haveReq {
		g = append(g,
			[]string{"", ""},
			[]string{"REQUEST INFO", ""},
			[]string{"Request ID", req.ID},
			[]string{"Timestamp", req.Timestamp.Format(grid.TimestampLayout)},
			[]string{"Endpoint", req.Endpoint},
			[]string{"Method", "POST"},
			[]string{"Content-Type", "application/json"},
			[]string{"Payload: apikey", maskedPayloadKey(req.Payload)},
		)
		for _, k := range sortedParamKeys(req.Payload) {
			g = append(g, []string{"Payload: " + k, stringifyParam(req.Payload[k])})
		}
	}

	if haveResp {
		g = append(g,
			[]string{"", ""},
			[]string{"RESPONSE INFO", ""},
			[]string{"Response ID", resp.ID},
			[]string{"Timestamp", resp.Timestamp.Format(grid.TimestampLayout)},
		)
		if resp.StatusCode > 0 {
			g = append(g, []string{"HTTP Status", strconv.Itoa(resp.StatusCode)})
		}
		if resp.Err != "" {
			g = append(g, []string{"Error", resp.Err})
		} else {
			g = append(g, []string{"Status", "Success"})
			if om, ok := resp.Body.(*grid.OrderedMap); ok {
				for _, field := range []string{"status", "message", "orderid"} {
					if v, found := om.Get(field); found {
						g = append(g, []string{"API " + field, stringifyParam(v)})
					}
				}
			}
		}
	}
	return g
}

// summarizeBody lists the top-level keys of a response body plus the status
// and message fields when present.
func summarizeBody(om *grid.OrderedMap) grid.Grid {
	keys := om.Keys()
	if len(keys) > 5 {
		keys = keys[:5]
	}
	shown := ""
	for i, k := range keys {
		if i > 0 {
			shown += ", "
		}
		shown += k
	}

	g := grid.Grid{{"Response Keys", shown}}
	if v, ok := om.Get("status"); ok {
		g = append(g, []string{"API Status", stringifyParam(v)})
	}
	if v, ok := om.Get("message"); ok {
		g = append(g, []string{"API Message", stringifyParam(v)})
	}
	return g
}

func maskedPayloadKey(payload map[string]any) string {
	key, ok := payload["apikey"].(string)
	if !ok {
		return "Not Found"
	}
	return openalgo.MaskKey(key)
}

// sortedParamKeys returns the payload keys minus apikey, sorted for
// deterministic output.
func sortedParamKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "apikey" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringifyParam(v any) string {
	return grid.FormatValue("", v)
}
