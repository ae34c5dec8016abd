package blizzard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/metrics"
)

const (
	// TokenURL is the OAuth client-credentials token endpoint
	TokenURL = "https://oauth.battle.net/token"

	// ChinaGatewayURL replaces the regional API host for the cn region
	ChinaGatewayURL = "https://gateway.battlenet.com.cn"

	regionalURLFormat = "https://%s.api.blizzard.com"

	defaultTimeout        = 30 * time.Second
	defaultReferenceCache = 256

	endpointRealmSearch = "realm_search"
	endpointProfile     = "character_profile"
	endpointEquipment   = "character_equipment"
	endpointReference   = "reference"
)

// Config holds the client's credentials and tuning knobs. Token is set
// explicitly by calling Authenticate; there is no package-level token state.
type Config struct {
	ClientID     string
	ClientSecret string
	Token        string
	Locale       string
	Timeout      time.Duration
	CacheSize    int
}

// Client talks to the WoW retail profile API for one set of credentials.
// Reference lookups resolved through hrefs are memoized in an LRU cache so
// repeated polls don't refetch static detail documents.
type Client struct {
	httpClient *http.Client
	token      string
	locale     string
	references *lru.Cache[string, map[string]any]
}

// NewClient builds a client from config. The config token may be empty; call
// Authenticate before the profile endpoints in that case.
func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cacheSize := cfg.CacheSize
	if cacheSize == 0 {
		cacheSize = defaultReferenceCache
	}
	references, err := lru.New[string, map[string]any](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference cache: %w", err)
	}

	locale := cfg.Locale
	if locale == "" {
		locale = "en_US"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      cfg.Token,
		locale:     locale,
		references: references,
	}, nil
}

// BaseURL returns the API host for a region. The cn region routes through the
// battlenet gateway instead of a regional subdomain.
func BaseURL(region string) (string, error) {
	if !domain.IsKnownRegion(region) {
		return "", fmt.Errorf("%w: %q (known regions: %s)",
			domain.ErrUnknownRegion, region, strings.Join(domain.KnownRegions, ", "))
	}
	if region == "cn" {
		return ChinaGatewayURL, nil
	}
	return fmt.Sprintf(regionalURLFormat, region), nil
}

// Authenticate fetches a client-credentials token and stores it on the client
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) error {
	return c.authenticateAt(ctx, TokenURL, clientID, clientSecret)
}

func (c *Client) authenticateAt(ctx context.Context, tokenURL, clientID, clientSecret string) error {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("token", "error").Inc()
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestsTotal.WithLabelValues("token", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: token response had no access_token", domain.ErrMissingToken)
	}

	c.token = payload.AccessToken
	logger.FromContext(ctx).Info("Authenticated with upstream API", "expires_in", payload.ExpiresIn)
	return nil
}

// ValidateRealm checks a realm slug against the realm search index and
// returns the realm's canonical display name. Zero matches is an unknown
// realm; more than one is ambiguous, with candidates named in the error.
func (c *Client) ValidateRealm(ctx context.Context, region, realm string) (string, error) {
	base, err := BaseURL(region)
	if err != nil {
		return "", err
	}
	return c.validateRealmAt(ctx, base, region, realm)
}

func (c *Client) validateRealmAt(ctx context.Context, base, region, realm string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(realm))

	params := url.Values{
		"namespace": {"dynamic-" + region},
		"_page":     {"1"},
		"_pageSize": {"10"},
		"orderby":   {"name"},
		"slug":      {slug},
	}

	var payload struct {
		Results []struct {
			Data struct {
				Name map[string]string `json:"name"`
			} `json:"data"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, endpointRealmSearch, base+"/data/wow/search/realm?"+params.Encode(), &payload); err != nil {
		return "", err
	}

	switch len(payload.Results) {
	case 0:
		return "", fmt.Errorf("%w: realm slug %q returned no results", domain.ErrUnknownRealm, slug)
	case 1:
		name := payload.Results[0].Data.Name[c.locale]
		logger.FromContext(ctx).Debug("Realm slug validated", "slug", slug, "name", name)
		return name, nil
	default:
		candidates := make([]string, 0, len(payload.Results))
		for _, result := range payload.Results {
			candidates = append(candidates, result.Data.Name[c.locale])
		}
		return "", fmt.Errorf("%w: realm slug %q returned multiple results: %s",
			domain.ErrAmbiguousRealm, slug, strings.Join(candidates, ", "))
	}
}

// GetCharacterProfile fetches the character profile summary document. The
// result is the raw decoded JSON object so the caller's field registry can
// materialize the parts it understands.
func (c *Client) GetCharacterProfile(ctx context.Context, character *domain.Character) (map[string]any, error) {
	base, err := BaseURL(character.Region)
	if err != nil {
		return nil, err
	}
	return c.getProfileAt(ctx, base, character)
}

func (c *Client) getProfileAt(ctx context.Context, base string, character *domain.Character) (map[string]any, error) {
	var doc map[string]any
	if err := c.getJSON(ctx, endpointProfile, c.profileURL(base, character, ""), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// equipmentResponse mirrors the slice of the equipment document this service
// reads. Unlisted keys are dropped by the JSON decoder.
type equipmentResponse struct {
	EquippedItems []struct {
		Slot struct {
			Type string `json:"type"`
		} `json:"slot"`
		Item struct {
			ID int `json:"id"`
		} `json:"item"`
		Level struct {
			Value int `json:"value"`
		} `json:"level"`
		Name    any `json:"name"`
		Quality struct {
			Type string `json:"type"`
		} `json:"quality"`
		InventoryType struct {
			Type string `json:"type"`
		} `json:"inventory_type"`
	} `json:"equipped_items"`
}

// GetCharacterEquipment fetches the equipped-items collection flattened to
// the fields the gear snapshot needs
func (c *Client) GetCharacterEquipment(ctx context.Context, character *domain.Character) ([]domain.EquippedItem, error) {
	base, err := BaseURL(character.Region)
	if err != nil {
		return nil, err
	}
	return c.getEquipmentAt(ctx, base, character)
}

func (c *Client) getEquipmentAt(ctx context.Context, base string, character *domain.Character) ([]domain.EquippedItem, error) {
	var payload equipmentResponse
	if err := c.getJSON(ctx, endpointEquipment, c.profileURL(base, character, "/equipment"), &payload); err != nil {
		return nil, err
	}

	items := make([]domain.EquippedItem, 0, len(payload.EquippedItems))
	for _, wire := range payload.EquippedItems {
		items = append(items, domain.EquippedItem{
			SlotType:      domain.Slot(wire.Slot.Type),
			ItemID:        wire.Item.ID,
			ItemLevel:     wire.Level.Value,
			Name:          c.localizedName(wire.Name),
			Quality:       domain.QualityTier(wire.Quality.Type),
			InventoryType: wire.InventoryType.Type,
		})
	}
	return items, nil
}

// ResolveReference fetches the document behind an href link. Results are
// cached; decoders never call this implicitly, callers opt in per field.
func (c *Client) ResolveReference(ctx context.Context, href string) (map[string]any, error) {
	if doc, ok := c.references.Get(href); ok {
		return doc, nil
	}

	var doc map[string]any
	if err := c.getJSON(ctx, endpointReference, href, &doc); err != nil {
		return nil, err
	}
	c.references.Add(href, doc)
	return doc, nil
}

func (c *Client) profileURL(base string, character *domain.Character, suffix string) string {
	slug := strings.ToLower(strings.TrimSpace(character.Realm))
	name := strings.ToLower(strings.TrimSpace(character.Name))
	params := url.Values{
		"namespace": {"profile-" + character.Region},
		"locale":    {c.locale},
	}

	return fmt.Sprintf("%s/profile/wow/character/%s/%s%s?%s",
		base, url.PathEscape(slug), url.PathEscape(name), suffix, params.Encode())
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	if c.token == "" {
		return fmt.Errorf("%w: authenticate before calling the profile API", domain.ErrMissingToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// localizedName flattens a name that may arrive as a plain string or as a
// locale-keyed object
func (c *Client) localizedName(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v[c.locale].(string); ok {
			return s
		}
	}
	return ""
}
