package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"micrositebuilder/internal/domain"
)

const defaultBaseURL = "https://api.paystack.co"

type paystackClient struct {
	client      *http.Client
	baseURL     string
	secretKey   string
	callbackURL string
}

// NewPaystackClient returns a PaymentProvider backed by the Paystack REST API.
// baseURL overrides the production endpoint; pass "" for the default.
func NewPaystackClient(client *http.Client, baseURL, secretKey, callbackURL string) domain.PaymentProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &paystackClient{
		client:      client,
		baseURL:     baseURL,
		secretKey:   secretKey,
		callbackURL: callbackURL,
	}
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (p *paystackClient) Initialize(ctx context.Context, email string, amountMinor int64, reference string, metadata map[string]string) (string, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		Reference:   reference,
		CallbackURL: p.callbackURL,
		Metadata:    metadata,
	})
	if err != nil {
		return "", fmt.Errorf("marshal initialize request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to initialize transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment api returned status: %d", resp.StatusCode)
	}
	var data initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if !data.Status {
		return "", fmt.Errorf("payment api rejected initialize: %s", data.Message)
	}
	return data.Data.AuthorizationURL, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string            `json:"status"`
		Amount   int64             `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data"`
}

// Verify asks the provider whether the reference was paid. A non-2xx or
// malformed response is an error; a well-formed declined transaction is
// Succeeded=false.
func (p *paystackClient) Verify(ctx context.Context, reference string) (*domain.PaymentVerification, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment api returned status: %d", resp.StatusCode)
	}
	var data verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if !data.Status {
		return nil, fmt.Errorf("payment api rejected verify: %s", data.Message)
	}
	return &domain.PaymentVerification{
		Succeeded:   data.Data.Status == "success",
		AmountMinor: data.Data.Amount,
		Metadata:    data.Data.Metadata,
	}, nil
}
