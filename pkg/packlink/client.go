package packlink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/firmarollers/b2b-backend/pkg/config"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

const (
	defaultBaseURL           = "https://api.packlink.com"
	errorBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("packlink api key is required")

// Client wraps the Packlink PRO API used for shipping quotes and bookings.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Packlink client from configuration.
func NewClient(cfg config.PacklinkConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Package describes one parcel for quoting or booking. Weight in kilograms,
// dimensions in centimeters.
type Package struct {
	Weight float64 `json:"weight"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Length int     `json:"length"`
}

// QuoteRequest holds the origin/destination pair and parcels to quote.
type QuoteRequest struct {
	FromCountry string
	FromZip     string
	ToCountry   string
	ToZip       string
	Packages    []Package
}

// ServiceOption is one carrier service returned by the quote API.
type ServiceOption struct {
	ID          int64   `json:"id"`
	CarrierName string  `json:"carrier_name"`
	Name        string  `json:"name"`
	TotalPrice  float64 `json:"total_price"`
	TransitDays string  `json:"transit_time"`
}

type quotedService struct {
	ID          int64  `json:"id"`
	CarrierName string `json:"carrier_name"`
	Name        string `json:"name"`
	TransitTime string `json:"transit_time"`
	Price       struct {
		TotalPrice float64 `json:"total_price"`
	} `json:"price"`
}

// Quote lists the carrier services available for the given parcels.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) ([]ServiceOption, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packlink client not configured")
	}
	if req.FromZip == "" || req.ToZip == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination postal codes are required")
	}
	if len(req.Packages) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one package is required")
	}

	params := url.Values{}
	params.Set("from[country]", req.FromCountry)
	params.Set("from[zip]", req.FromZip)
	params.Set("to[country]", req.ToCountry)
	params.Set("to[zip]", req.ToZip)
	for i, pkg := range req.Packages {
		prefix := fmt.Sprintf("packages[%d]", i)
		params.Set(prefix+"[weight]", strconv.FormatFloat(pkg.Weight, 'f', -1, 64))
		params.Set(prefix+"[width]", strconv.Itoa(pkg.Width))
		params.Set(prefix+"[height]", strconv.Itoa(pkg.Height))
		params.Set(prefix+"[length]", strconv.Itoa(pkg.Length))
	}

	endpoint := c.baseURL + "/v1/services?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build quote request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute quote request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, "quote request failed")
	}

	var services []quotedService
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode quote response")
	}

	out := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceOption{
			ID:          s.ID,
			CarrierName: s.CarrierName,
			Name:        s.Name,
			TotalPrice:  s.Price.TotalPrice,
			TransitDays: s.TransitTime,
		})
	}
	return out, nil
}

// ShipmentAddress is a sender or recipient for a booking.
type ShipmentAddress struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Street  string `json:"street1"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	State   string `json:"state,omitempty"`
}

// ShipmentRequest books a shipment against a quoted service.
type ShipmentRequest struct {
	ServiceID    int64           `json:"service_id"`
	From         ShipmentAddress `json:"from"`
	To           ShipmentAddress `json:"to"`
	Packages     []Package       `json:"packages"`
	Content      string          `json:"content"`
	ContentValue float64         `json:"contentvalue"`
}

// Shipment is the booking reference returned by Packlink.
type Shipment struct {
	Reference   string `json:"reference"`
	TrackingURL string `json:"tracking_url,omitempty"`
}

// CreateShipment books the shipment and returns its reference.
func (c *Client) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packlink client not configured")
	}
	if req.ServiceID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	if len(req.Packages) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one package is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal shipment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/shipments", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shipment request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shipment request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(resp, "shipment booking failed")
	}

	var shipment Shipment
	if err := json.NewDecoder(resp.Body).Decode(&shipment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shipment response")
	}
	if shipment.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shipment booked without reference")
	}
	return &shipment, nil
}

// ShipmentStatus is the live state of a booked shipment. Packlink reports
// the tracking link under tracking_url or carrier_tracking_url depending on
// the carrier.
type ShipmentStatus struct {
	Reference          string `json:"reference"`
	State              string `json:"state"`
	TrackingURL        string `json:"tracking_url,omitempty"`
	CarrierTrackingURL string `json:"carrier_tracking_url,omitempty"`
}

// GetShipment fetches the current state of a booked shipment.
func (c *Client) GetShipment(ctx context.Context, reference string) (*ShipmentStatus, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packlink client not configured")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment reference is required")
	}

	endpoint := c.baseURL + "/v1/shipments/" + url.PathEscape(reference)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shipment lookup")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shipment lookup")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, "shipment lookup failed")
	}

	var status ShipmentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shipment lookup")
	}
	return &status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) statusError(resp *http.Response, msg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), msg)
}
