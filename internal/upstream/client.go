// Package upstream is the Google Ads REST API client. It owns the OAuth2
// refresh-token exchange and classifies every upstream failure into the
// gateway error taxonomy.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/SuperFreelas/google-ads-gateway/internal/apperr"
	"github.com/SuperFreelas/google-ads-gateway/internal/config"
)

const (
	defaultBaseURL  = "https://googleads.googleapis.com/v17"
	defaultTokenURL = "https://oauth2.googleapis.com/token"

	// CallTimeout is the ceiling for a single upstream HTTP call.
	CallTimeout = 30 * time.Second
)

// Client is the outbound capability every operation depends on.
type Client interface {
	Search(ctx context.Context, customerID, query string) ([]SearchRow, error)
	MutateCampaignBudget(ctx context.Context, customerID, budgetResource string, amountMicros int64) error
	MutateCampaign(ctx context.Context, customerID string, update map[string]any, updateMask string) error
}

type RestClient struct {
	creds    config.Credentials
	baseURL  string
	tokenURL string
	httpc    *http.Client

	mu          sync.Mutex
	accessToken string // cached; dropped on upstream 401
}

func New(creds config.Credentials) *RestClient {
	return &RestClient{
		creds:    creds,
		baseURL:  defaultBaseURL,
		tokenURL: defaultTokenURL,
		httpc:    &http.Client{Timeout: CallTimeout},
	}
}

// Search runs a GAQL query, draining all result pages.
func (c *RestClient) Search(ctx context.Context, customerID, query string) ([]SearchRow, error) {
	var rows []SearchRow
	pageToken := ""
	for {
		var resp searchResponse
		req := searchRequest{Query: query, PageToken: pageToken}
		if err := c.post(ctx, "customers/"+customerID+"/googleAds:search", req, &resp); err != nil {
			return nil, err
		}
		rows = append(rows, resp.Results...)
		if resp.NextPageToken == "" {
			return rows, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *RestClient) MutateCampaignBudget(ctx context.Context, customerID, budgetResource string, amountMicros int64) error {
	req := mutateRequest{Operations: []mutateOperation{{
		UpdateMask: "amountMicros",
		Update: map[string]any{
			"resourceName": budgetResource,
			"amountMicros": strconv.FormatInt(amountMicros, 10),
		},
	}}}
	var resp mutateResponse
	return c.post(ctx, "customers/"+customerID+"/campaignBudgets:mutate", req, &resp)
}

func (c *RestClient) MutateCampaign(ctx context.Context, customerID string, update map[string]any, updateMask string) error {
	req := mutateRequest{Operations: []mutateOperation{{
		UpdateMask: updateMask,
		Update:     update,
	}}}
	var resp mutateResponse
	return c.post(ctx, "customers/"+customerID+"/campaigns:mutate", req, &resp)
}

// post sends an authenticated request, refreshing the access token and
// retrying exactly once when upstream reports the token expired.
func (c *RestClient) post(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	errBody, rawErr := c.postOnce(ctx, token, path, body, out)
	if rawErr != nil && requests.HasStatusErr(rawErr, http.StatusUnauthorized) {
		log.Debug().Str("path", path).Msg("access token expired; refreshing")
		c.invalidate(token)
		if token, err = c.token(ctx); err != nil {
			return err
		}
		errBody, rawErr = c.postOnce(ctx, token, path, body, out)
	}
	if rawErr != nil {
		return classify(rawErr, errBody)
	}
	return nil
}

func (c *RestClient) postOnce(ctx context.Context, token, path string, body, out any) (json.RawMessage, error) {
	var errBody json.RawMessage
	err := requests.
		URL(c.baseURL+"/"+path).
		Client(c.httpc).
		Bearer(token).
		Header("developer-token", c.creds.DeveloperToken).
		Header("login-customer-id", c.creds.LoginCustomerID).
		BodyJSON(body).
		ErrorJSON(&errBody).
		ToJSON(out).
		Fetch(ctx)
	return errBody, err
}

// token returns the cached access token, exchanging the refresh token for a
// new one when none is cached.
func (c *RestClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	var errBody json.RawMessage
	err := requests.
		URL(c.tokenURL).
		Client(c.httpc).
		BodyForm(url.Values{
			"client_id":     {c.creds.ClientID},
			"client_secret": {c.creds.ClientSecret},
			"refresh_token": {c.creds.RefreshToken},
			"grant_type":    {"refresh_token"},
		}).
		ErrorJSON(&errBody).
		ToJSON(&tok).
		Fetch(ctx)
	if err != nil {
		if isTimeout(err) {
			return "", apperr.New(apperr.UpstreamTimeout, "token endpoint timed out")
		}
		return "", apperr.New(apperr.Authentication, "failed to obtain access token: %s", upstreamDetail(err, errBody))
	}
	if tok.AccessToken == "" {
		return "", apperr.New(apperr.Authentication, "token endpoint returned no access token")
	}
	c.accessToken = tok.AccessToken
	return c.accessToken, nil
}

// invalidate drops the cached token, but only if no concurrent call already
// replaced it.
func (c *RestClient) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken == token {
		c.accessToken = ""
	}
}

// classify maps a raw transport error onto the gateway taxonomy, pulling the
// rejection reason out of the Google error envelope when one was returned.
func classify(err error, errBody json.RawMessage) error {
	detail := upstreamDetail(err, errBody)
	switch {
	case isTimeout(err):
		return apperr.New(apperr.UpstreamTimeout, "google ads call timed out")
	case requests.HasStatusErr(err, http.StatusUnauthorized, http.StatusForbidden):
		return apperr.New(apperr.Authentication, "google ads rejected credentials: %s", detail)
	case requests.HasStatusErr(err, http.StatusNotFound):
		return apperr.New(apperr.NotFound, "google ads resource not found: %s", detail)
	default:
		return apperr.New(apperr.Upstream, "google ads error: %s", detail)
	}
}

func upstreamDetail(err error, errBody json.RawMessage) string {
	if msg := strings.TrimSpace(gjson.GetBytes(errBody, "error.message").String()); msg != "" {
		if status := gjson.GetBytes(errBody, "error.status").String(); status != "" {
			return fmt.Sprintf("%s (%s)", msg, status)
		}
		return msg
	}
	return err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
