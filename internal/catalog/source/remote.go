package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"atlas/internal/catalog/models"
)

// maxBodyBytes caps how much of a response we read. The full country list is
// well under 1MB; anything bigger is a misbehaving upstream.
const maxBodyBytes = 8 << 20

// HTTPSource fetches the country list from a configured endpoint. Stateless:
// every Fetch is exactly one round trip.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	tracer   trace.Tracer
}

// NewHTTPSource builds a remote source with the given request timeout. The
// endpoint is validated per call, not here, so a misconfigured URL surfaces
// as ErrorInvalidEndpoint on the load path where the controller handles it.
func NewHTTPSource(endpoint string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		tracer:   otel.Tracer("atlas/internal/catalog/source"),
	}
}

// Fetch performs one GET against the endpoint and decodes the body.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Country, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.fetch",
		trace.WithAttributes(attribute.String("url.full", s.endpoint)))
	defer span.End()

	countries, err := s.fetch(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(GetCategory(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int("catalog.records", len(countries)))
	return countries, nil
}

func (s *HTTPSource) fetch(ctx context.Context, span trace.Span) ([]models.Country, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, NewFetchError(ErrorInvalidEndpoint, "endpoint is not a valid absolute URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, NewFetchError(ErrorInvalidEndpoint, "building request failed", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewFetchError(ErrorTransport, "request failed", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := NewFetchError(ErrorHTTPStatus, "unexpected status "+resp.Status, nil)
		fe.StatusCode = resp.StatusCode
		return nil, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewFetchError(ErrorTransport, "reading body failed", err)
	}
	if len(body) == 0 {
		return nil, NewFetchError(ErrorEmptyBody, "response body is empty", nil)
	}

	countries, err := decodeCountries(body)
	if err != nil {
		return nil, NewFetchError(ErrorDecode, "body is not a country array", err)
	}
	return countries, nil
}
