package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"pulsefit/fitness-tracker/internal/config"
	"pulsefit/fitness-tracker/internal/domain"
)

const defaultTimeout = 30 * time.Second

// gatewayClient talks JSON over HTTP to the hosted AI gateway. It implements
// both PlanGenerator and InsightGenerator.
type gatewayClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewGatewayClient builds a client from config. The endpoint must be set;
// callers that leave it empty should not wire the planner routes.
func NewGatewayClient(cfg config.AIConfig) (*gatewayClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("planner: ai.endpoint is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &gatewayClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// planResponse mirrors the gateway's plan payload; it maps 1:1 onto the
// domain plan structure minus IDs and ownership, which this side assigns.
type planResponse struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Days        []domain.WorkoutDay `json:"days"`
}

// GeneratePlan asks the gateway for a plan matching the profile.
func (c *gatewayClient) GeneratePlan(ctx context.Context, req PlanRequest) (*domain.WorkoutPlan, error) {
	var resp planResponse
	if err := c.post(ctx, "/generate-plan", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Days) == 0 {
		return nil, fmt.Errorf("planner: gateway returned a plan with no days")
	}
	return &domain.WorkoutPlan{
		Name:        resp.Name,
		Description: resp.Description,
		Generated:   true,
		Days:        resp.Days,
	}, nil
}

type insightResponse struct {
	Insight string `json:"insight"`
}

// GenerateInsight asks the gateway for a textual read on recent training.
func (c *gatewayClient) GenerateInsight(ctx context.Context, req InsightRequest) (string, error) {
	var resp insightResponse
	if err := c.post(ctx, "/generate-insight", req, &resp); err != nil {
		return "", err
	}
	return resp.Insight, nil
}

func (c *gatewayClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("ai gateway request failed")
		return ErrUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": httpResp.StatusCode,
		}).Warn("ai gateway returned non-200")
		return ErrUnavailable
	}

	return json.NewDecoder(httpResp.Body).Decode(out)
}
