package trademark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client calls the remote trademark search endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient returns a Client posting to endpoint. A nil httpClient means
// http.DefaultClient; a nil log means slog.Default().
func NewClient(endpoint string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{endpoint: endpoint, httpClient: httpClient, log: log}
}

var _ domain.TrademarkService = (*Client)(nil)

// Search posts the normalized params as JSON and transforms the response.
// Transport failures, non-2xx statuses and bodies that are not JSON all
// surface as a network error with no partial result.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	body, err := json.Marshal(Normalize(params))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to encode search request", err)
	}
	c.log.DebugContext(ctx, "sending search request", slog.String("endpoint", c.endpoint), slog.String("params", string(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to build search request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, domain.NewNetworkError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	c.log.DebugContext(ctx, "search response received", slog.Int("status", resp.StatusCode), slog.Int("bytes", len(raw)))

	out, err := TransformResponse(raw)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	return out, nil
}

// TransformResponse maps the remote schema onto SearchResponse:
//
//	response.docs[i].mark_text           -> Mark
//	response.docs[i].owner_name          -> Owner
//	response.docs[i].status              -> Status
//	response.docs[i].status_date         -> StatusDate
//	response.docs[i].registration_number -> RegistrationNumber
//	response.docs[i].filing_date         -> FilingDate
//	response.docs[i].class_description   -> ClassDescription
//	response.docs[i].classes             -> ClassNumbers
//	response.docs[i].expiry_date         -> ExpiryDate
//	response.numFound                    -> TotalResults
//
// The mapping is best effort: a missing or mistyped field stays empty and a
// missing response or docs key yields no rows and a total of 0. Numbers are
// kept in their literal form. Only a body that is not JSON is an error.
func TransformResponse(body []byte) (*domain.SearchResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &domain.SearchResponse{Trademarks: []domain.TrademarkResult{}}
	response := object(object(root)["response"])
	if response == nil {
		return out, nil
	}

	if n, ok := response["numFound"].(json.Number); ok {
		if total, err := n.Int64(); err == nil && total > 0 {
			out.TotalResults = int(total)
		}
	}

	docs, _ := response["docs"].([]any)
	for _, d := range docs {
		doc := object(d)
		out.Trademarks = append(out.Trademarks, domain.TrademarkResult{
			Mark:               text(doc["mark_text"]),
			Owner:              text(doc["owner_name"]),
			Status:             text(doc["status"]),
			StatusDate:         text(doc["status_date"]),
			RegistrationNumber: text(doc["registration_number"]),
			FilingDate:         text(doc["filing_date"]),
			ClassDescription:   text(doc["class_description"]),
			ClassNumbers:       texts(doc["classes"]),
			ExpiryDate:         text(doc["expiry_date"]),
		})
	}
	return out, nil
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// texts accepts a list of scalars or a single scalar.
func texts(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string, json.Number:
		if s := text(t); s != "" {
			return []string{s}
		}
	}
	return nil
}
