package openalgo

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestRecord is the diagnostic copy of one outbound request.
type RequestRecord struct {
	ID        string
	Seq       int
	Timestamp time.Time
	Endpoint  string
	Payload   map[string]any
}

// ResponseRecord is the diagnostic copy of one response or failure.
type ResponseRecord struct {
	ID         string
	Seq        int
	Timestamp  time.Time
	StatusCode int
	Err        string
	Body       any
}

// DebugLog retains the last request and response for inspection from the
// host. It is a diagnostic side channel only; nothing reads it on the
// request path.
type DebugLog struct {
	mu       sync.Mutex
	lastReq  *RequestRecord
	lastResp *ResponseRecord
	count    int
}

func NewDebugLog() *DebugLog {
	return &DebugLog{}
}

// RecordRequest stores a copy of the outbound payload and assigns the
// request its id and sequence number.
func (d *DebugLog) RecordRequest(endpoint string, payload map[string]any) RequestRecord {
	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.count++
	rec := RequestRecord{
		ID:        uuid.NewString(),
		Seq:       d.count,
		Timestamp: time.Now(),
		Endpoint:  endpoint,
		Payload:   copied,
	}
	d.lastReq = &rec
	return rec
}

// RecordResponse stores the outcome of the request identified by id.
func (d *DebugLog) RecordResponse(id string, seq int, statusCode int, errMsg string, body any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastResp = &ResponseRecord{
		ID:         id,
		Seq:        seq,
		Timestamp:  time.Now(),
		StatusCode: statusCode,
		Err:        errMsg,
		Body:       body,
	}
}

// LastRequest returns a copy of the most recent request record.
func (d *DebugLog) LastRequest() (RequestRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastReq == nil {
		return RequestRecord{}, false
	}
	return *d.lastReq, true
}

// LastResponse returns a copy of the most recent response record.
func (d *DebugLog) LastResponse() (ResponseRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastResp == nil {
		return ResponseRecord{}, false
	}
	return *d.lastResp, true
}

// Count reports how many requests have been issued.
func (d *DebugLog) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if len(key) > 4 {
		return "***" + key[len(key)-4:]
	}
	return "Not Set"
}
