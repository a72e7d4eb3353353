package api

import (
	"bytes"
	"canirun/internal/config"
	"canirun/internal/constants"
	"canirun/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ErrInvalidGameIdentifier is returned when an app id does not resolve to a
// storefront entry, including when the storefront cannot be reached.
var ErrInvalidGameIdentifier = errors.New("invalid game identifier")

type SteamClient struct {
	baseURL  string
	language string
	client   *fasthttp.Client
	logger   zerolog.Logger
}

func NewSteamClient(cfg *config.Config, logger zerolog.Logger) *SteamClient {
	return &SteamClient{
		baseURL:  strings.TrimRight(cfg.SteamBaseURL, "/"),
		language: cfg.SteamLanguage,
		client: &fasthttp.Client{
			Name:                "canirun",
			MaxConnsPerHost:     constants.SteamMaxConnsPerHost,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: constants.SteamMaxResponseSize,
		},
		logger: logger,
	}
}

// GetGameName returns the storefront display name of appID.
func (c *SteamClient) GetGameName(ctx context.Context, appID string) (string, error) {
	app, err := c.GetAppDetails(ctx, appID)
	if err != nil {
		return "", err
	}
	return app.Name, nil
}

// GetRequirementDocument returns the PC requirement markup of one tier. A game
// that publishes no requirements for the tier yields an empty document.
func (c *SteamClient) GetRequirementDocument(ctx context.Context, appID string, tier domain.Tier) (string, error) {
	app, err := c.GetAppDetails(ctx, appID)
	if err != nil {
		return "", err
	}

	reqs, err := app.PCRequirements()
	if err != nil {
		return "", fmt.Errorf("app %s: %w", appID, err)
	}

	doc := reqs.Minimum
	if tier == domain.TierRecommended {
		doc = reqs.Recommended
	}
	if doc == "" {
		c.logger.Warn().Str("app_id", appID).Str("tier", string(tier)).Msg("game publishes no requirements for tier")
	}
	return doc, nil
}

func (c *SteamClient) GetAppDetails(ctx context.Context, appID string) (*AppData, error) {
	u := fmt.Sprintf("%s/api/appdetails/?appids=%s&l=%s", c.baseURL, url.QueryEscape(appID), url.QueryEscape(c.language))

	resp, err := doRequest[AppDetailsResponse](ctx, c, u)
	if err != nil {
		c.logger.Error().Err(err).Str("app_id", appID).Msg("failed to fetch app details")
		return nil, fmt.Errorf("%w: app %s: %w", ErrInvalidGameIdentifier, appID, err)
	}

	entry, ok := (*resp)[appID]
	if !ok || !entry.Success || entry.Data == nil {
		return nil, fmt.Errorf("%w: app %s not found on the storefront", ErrInvalidGameIdentifier, appID)
	}

	c.logger.Debug().Str("app_id", appID).Str("name", entry.Data.Name).Msg("fetched app details")
	return entry.Data, nil
}

func doRequest[T any](ctx context.Context, client *SteamClient, uri string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AppDetailsResponse is keyed by app id.
type AppDetailsResponse map[string]AppDetailsEntry

type AppDetailsEntry struct {
	Success bool     `json:"success"`
	Data    *AppData `json:"data"`
}

type AppData struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	SteamAppID int    `json:"steam_appid"`

	// Steam sends an object when requirements exist and an empty array
	// when they do not.
	RawPCRequirements json.RawMessage `json:"pc_requirements"`
}

type Requirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

func (a *AppData) PCRequirements() (Requirements, error) {
	var reqs Requirements
	raw := bytes.TrimSpace(a.RawPCRequirements)
	if len(raw) == 0 || raw[0] != '{' {
		return reqs, nil
	}
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return reqs, fmt.Errorf("decode pc_requirements: %w", err)
	}
	return reqs, nil
}
