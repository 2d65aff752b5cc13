package functions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"algogrid/internal/grid"
	"algogrid/logger"
)

// SetAPI stores the API key, version and host URL for all subsequent calls.
func (s *Service) SetAPI(apiKey, version, hostURL string) grid.Grid {
	if strings.TrimSpace(apiKey) == "" {
		return grid.ErrorGrid("API Key is required.")
	}

	st := s.store.Update(apiKey, version, hostURL)
	s.log.WithFields(logger.Fields{
		"version": st.Version,
		"host":    st.HostURL,
	}).Info("API configuration updated")

	return grid.Grid{{fmt.Sprintf("Configuration updated: API Key Set, Version = %s, Host = %s", st.Version, st.HostURL)}}
}

// GetConfig renders the current configuration with the key masked.
func (s *Service) GetConfig() grid.Grid {
	st := s.store.Snapshot()
	return grid.Grid{
		{"Configuration", "Value"},
		{"API Key", st.MaskedKey()},
		{"Version", st.Version},
		{"Host URL", st.HostURL},
		{"Response Format", st.Format.String()},
	}
}

// SetFormat changes the preferred response format for all functions.
func (s *Service) SetFormat(name string) grid.Grid {
	format, ok := grid.ParseFormat(name)
	if !ok {
		return grid.ErrorGrid("format must be one of auto, table, key_value")
	}
	s.store.SetFormat(format)
	return grid.Grid{{fmt.Sprintf("Response format set to: %s", format)}}
}

// Status reports the current system state.
func (s *Service) Status() grid.Grid {
	st := s.store.Snapshot()
	keyState := "Not Set"
	if st.HasKey() {
		keyState = "Set"
	}
	return grid.Grid{
		{"API Key", keyState},
		{"OpenAlgo Host", st.HostURL},
		{"API Version", st.Version},
		{"Requests Made", strconv.Itoa(s.client.Debug().Count())},
	}
}

// ResponseInfo describes the dynamic response system.
func (s *Service) ResponseInfo() grid.Grid {
	return grid.Grid{
		{"Feature", "Description"},
		{"Auto Format Detection", "Automatically chooses best display format"},
		{"Smart Field Ordering", "Prioritizes important fields first"},
		{"Price Formatting", "Formats currency values with 2 decimals"},
		{"Timestamp Conversion", "Converts Unix timestamps to readable dates"},
		{"Percentage Formatting", "Adds % suffix to percentage fields"},
		{"Field Labels", "Uses user-friendly column names"},
		{"Error Processing", "Provides clear error messages"},
	}
}

// AllFunctions lists the available operations.
func (s *Service) AllFunctions() grid.Grid {
	return grid.Grid{
		{"Category", "Function", "Description"},
		{"Setup", "api(api_key, version, host_url)", "Set API configuration"},
		{"Setup", "get_config()", "View current configuration"},
		{"Setup", "set_format(format_type)", "Set response format preference"},
		{"Setup", "response_info()", "Describe dynamic response features"},
		{"Setup", "status()", "Check system status"},
		{"Debug", "debug_last_request()", "Show last HTTP request details"},
		{"Debug", "debug_last_response()", "Show last HTTP response details"},
		{"Debug", "debug_full_log()", "Show combined request/response log"},
		{"Market Data", "quotes(symbol, exchange)", "Get real-time quotes"},
		{"Market Data", "depth(symbol, exchange)", "Get market depth"},
		{"Market Data", "history(symbol, exchange, interval, start, end)", "Get historical data"},
		{"Market Data", "intervals()", "Get available intervals"},
		{"Account", "funds()", "Get account funds"},
		{"Account", "orderbook()", "Get order book"},
		{"Account", "tradebook()", "Get trade book"},
		{"Account", "positionbook()", "Get position book"},
		{"Account", "holdings()", "Get holdings"},
		{"Orders", "placeorder(...)", "Place order"},
		{"Orders", "modifyorder(...)", "Modify order"},
		{"Orders", "cancelorder(strategy, order_id)", "Cancel order"},
		{"Orders", "orderstatus(strategy, order_id)", "Get order status"},
		{"Orders", "basketorder(strategy, rows)", "Place a basket of orders"},
		{"Help", "all_functions()", "This function list"},
		{"Help", "test_connection()", "Test API connection"},
		{"Help", "preview_request(resource, params)", "Preview a request without sending it"},
	}
}

// TestConnection probes the funds endpoint to verify connectivity.
func (s *Service) TestConnection(ctx context.Context) grid.Grid {
	st := s.store.Snapshot()
	if !st.HasKey() {
		return grid.ErrorGrid(errNoAPIKey)
	}

	_, apiErr := s.client.Post(ctx, st.EndpointURL("funds"), map[string]any{"apikey": st.APIKey})
	if apiErr != nil {
		return grid.Grid{
			{"Connection Test", "FAILED"},
			{"Error", apiErr.Message},
			{"Host", st.HostURL},
		}
	}
	return grid.Grid{
		{"Connection Test", "SUCCESS"},
		{"Host", st.HostURL},
		{"Version", st.Version},
	}
}
