package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gemforge/cad-converter/pkg/metrics"
)

const defaultTimeout = 300 * time.Second

// ConvertRequest is the payload sent to the CAD generation service.
type ConvertRequest struct {
	SvgURL        string         `json:"svg_url"`
	DesignID      string         `json:"design_id"`
	GemstoneSpecs []GemstoneSpec `json:"gemstone_specs"`
	MetalSpecs    MetalSpec      `json:"metal_specs"`
}

type GemstoneSpec struct {
	Shape       string  `json:"shape"`
	SizeMM      float64 `json:"size_mm"`
	DiaWt       float64 `json:"dia_wt"`
	Quantity    int     `json:"quantity"`
	SettingType string  `json:"setting_type"`
}

type MetalSpec struct {
	Type        string  `json:"type"`
	Karat       int     `json:"karat"`
	WeightGrams float64 `json:"weight_grams"`
	Tone        string  `json:"tone"`
}

// ConvertResponse carries the three generated model files. The CAD service
// returns the file bodies inline.
type ConvertResponse struct {
	StepFile string `json:"step_file"`
	StlFile  string `json:"stl_file"`
	ObjFile  string `json:"obj_file"`
}

// StatusError is returned when the CAD service answers with a non-2xx status.
// The response body is kept verbatim as the diagnostic text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("CAD service returned status %d: %s", e.StatusCode, e.Body)
}

type CadOpts func(c *CadClient)

// CadClient talks to the external CAD generation service. Every call is
// attempted exactly once and bounded by the client timeout.
type CadClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCadClient(baseURL string, opts ...CadOpts) *CadClient {
	c := &CadClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, o := range opts {
		o(c)
	}
	return c
}

func WithTimeout(timeout time.Duration) CadOpts {
	return func(c *CadClient) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) CadOpts {
	return func(c *CadClient) {
		c.httpClient = httpClient
	}
}

// Convert posts the design payload to {base}/convert and decodes the three
// generated files from the response.
func (c *CadClient) Convert(ctx context.Context, request ConvertRequest) (*ConvertResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode convert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CAD service request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.IncreaseCadRequestsTotalMetric(strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		diagnostic, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(diagnostic)}
	}

	var converted ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&converted); err != nil {
		return nil, fmt.Errorf("failed to decode CAD service response: %w", err)
	}

	return &converted, nil
}
