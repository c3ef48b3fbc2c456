package forecast

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"FuelDesk/internal/domain/models"
	drepo "FuelDesk/internal/domain/repository"
	xhttp "FuelDesk/pkg/http"
)

// Client is the ForecastGateway backed by the price-forecasting REST API.
type Client struct {
	root string
	http *xhttp.Client
}

// New creates a gateway for the API mounted at apiRoot.
func New(apiRoot string, httpClient *xhttp.Client) drepo.ForecastGateway {
	return &Client{
		root: strings.TrimRight(apiRoot, "/"),
		http: httpClient,
	}
}

// Send issues exactly one request. Non-2xx responses are returned, not errored.
func (c *Client) Send(ctx context.Context, endpoint models.Endpoint, spec models.RequestSpec) (*models.ResponseEnvelope, error) {
	method := string(spec.Method)
	if method == "" {
		method = xhttp.MethodGet
	}

	opts := &xhttp.RequestOptions{
		Method: method,
		URL:    c.root + endpoint.Path,
	}
	if len(spec.Query) > 0 {
		opts.QueryParams = url.Values(spec.Query)
	}
	// A nil map must not become a JSON "null" body.
	if spec.Body != nil {
		opts.Body = spec.Body
	}

	resp, err := c.http.Do(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint.Path, err)
	}

	return &models.ResponseEnvelope{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}, nil
}
