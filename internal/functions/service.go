// Package functions is the spreadsheet-facing facade: one operation per
// remote API capability, each returning a display grid. Operations never
// return Go errors to the host; every failure path yields an error grid.
package functions

import (
	"context"

	"algogrid/internal/grid"
	"algogrid/internal/openalgo"
	"algogrid/logger"
)

const errNoAPIKey = "OpenAlgo API Key is not set. Use oa_api()"

type Service struct {
	store  *openalgo.Store
	client *openalgo.Client
	log    *logger.Entry
}

func NewService(store *openalgo.Store, client *openalgo.Client) *Service {
	return &Service{
		store:  store,
		client: client,
		log:    logger.GetLogger().WithComponent("functions"),
	}
}

// fetch takes a settings snapshot, checks the API key and posts the payload
// to one resource. A missing key or failed call comes back as a ready error
// grid; the settings snapshot is returned so callers format with the same
// preference the call was made under.
func (s *Service) fetch(ctx context.Context, resource string, params map[string]string) (openalgo.Settings, any, grid.Grid) {
	st := s.store.Snapshot()
	if !st.HasKey() {
		return st, nil, grid.ErrorGrid(errNoAPIKey)
	}

	payload := map[string]any{"apikey": st.APIKey}
	for k, v := range params {
		payload[k] = v
	}

	raw, apiErr := s.client.Post(ctx, st.EndpointURL(resource), payload)
	if apiErr != nil {
		return st, nil, grid.ErrorGrid(apiErr.Message)
	}
	return st, raw, nil
}

// fetchPayload is fetch for operations whose payload is not a flat string
// mapping, like basket orders.
func (s *Service) fetchPayload(ctx context.Context, resource string, payload map[string]any) (openalgo.Settings, any, grid.Grid) {
	st := s.store.Snapshot()
	if !st.HasKey() {
		return st, nil, grid.ErrorGrid(errNoAPIKey)
	}

	payload["apikey"] = st.APIKey
	raw, apiErr := s.client.Post(ctx, st.EndpointURL(resource), payload)
	if apiErr != nil {
		return st, nil, grid.ErrorGrid(apiErr.Message)
	}
	return st, raw, nil
}

// envelope pulls a string field out of a decoded response mapping.
func envelope(raw any, field, fallback string) string {
	om, ok := raw.(*grid.OrderedMap)
	if !ok {
		return fallback
	}
	v, ok := om.Get(field)
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return grid.FormatValue(field, v)
}

// envelopeData unwraps the data payload of a response mapping.
func envelopeData(raw any) any {
	om, ok := raw.(*grid.OrderedMap)
	if !ok {
		return raw
	}
	if data, found := om.Get("data"); found {
		return data
	}
	return raw
}
