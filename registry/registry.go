package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unknownStatus is recorded when the registry response carries no status
// field.
const unknownStatus = "UNK"

// Result is a registry lookup outcome: the upstream status plus the raw
// document, which is stored verbatim and later mined for
// manufacturer/model/registration-date fields.
type Result struct {
	Status string
	Data   map[string]interface{}
}

// Verifier fetches official registration details for a vehicle.
type Verifier interface {
	Verify(ctx context.Context, regNo string) (*Result, error)
}

// APIError is a structured upstream failure from the registry provider. The
// status code is forwarded to the caller rather than flattened to 500.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry error: status %d code %s: %s", e.StatusCode, e.Code, e.Message)
}

type cashfreeVerifier struct {
	apiURL       string
	clientID     string
	clientSecret string
	client       *http.Client
}

// NewCashfree returns a Verifier over the Cashfree vehicle RC API.
// Credentials come from CASHFREE_API_URL, CASHFREE_CLIENT_ID and
// CASHFREE_CLIENT_SECRET.
func NewCashfree() Verifier {
	return &cashfreeVerifier{
		apiURL:       os.Getenv("CASHFREE_API_URL"),
		clientID:     os.Getenv("CASHFREE_CLIENT_ID"),
		clientSecret: os.Getenv("CASHFREE_CLIENT_SECRET"),
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

type verifyRequest struct {
	VerificationID string `json:"verification_id"`
	VehicleNumber  string `json:"vehicle_number"`
}

func (c *cashfreeVerifier) Verify(ctx context.Context, regNo string) (*Result, error) {
	body, err := json.Marshal(verifyRequest{
		VerificationID: uuid.NewString(),
		VehicleNumber:  regNo,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-client-secret", c.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var parsed struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Type    string `json:"type"`
		}
		if err := json.Unmarshal(respBody, &parsed); err == nil {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
			apiErr.Type = parsed.Type
		} else {
			apiErr.Message = string(respBody)
		}
		zap.S().Errorw("registry lookup failed", "reg_no", regNo, "status", resp.StatusCode, "code", apiErr.Code)
		return nil, apiErr
	}

	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("registry returned malformed response: %w", err)
	}

	status, _ := data["status"].(string)
	if status == "" {
		status = unknownStatus
	}
	return &Result{Status: status, Data: data}, nil
}
