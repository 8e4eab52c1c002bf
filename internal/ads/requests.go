package ads

import (
	"strings"

	"github.com/SuperFreelas/google-ads-gateway/internal/apperr"
)

// Validated request values, constructed once at the HTTP boundary. Validation
// failures never reach the upstream client.

// CampaignListRequest scopes a campaign listing. An empty Status means no
// filtering.
type CampaignListRequest struct {
	CustomerID string
	Status     CampaignStatus
}

func NewCampaignListRequest(customerID, status string) (CampaignListRequest, error) {
	if err := validCustomerID(customerID); err != nil {
		return CampaignListRequest{}, err
	}
	req := CampaignListRequest{CustomerID: customerID}
	if status != "" {
		s := CampaignStatus(strings.ToUpper(status))
		if !campaignStatuses[s] {
			return CampaignListRequest{}, apperr.New(apperr.Validation,
				"invalid status %q: must be one of ENABLED, PAUSED, REMOVED", status)
		}
		req.Status = s
	}
	return req, nil
}

// PerformanceRequest scopes a metrics report. Empty CampaignIDs means all
// campaigns.
type PerformanceRequest struct {
	CustomerID  string
	CampaignIDs []string
	DateRange   DateRange
}

func NewPerformanceRequest(customerID, campaignIDs, dateRange string) (PerformanceRequest, error) {
	if err := validCustomerID(customerID); err != nil {
		return PerformanceRequest{}, err
	}
	req := PerformanceRequest{CustomerID: customerID, DateRange: RangeLast7}

	if dateRange != "" {
		dr := DateRange(strings.ToUpper(dateRange))
		if !dateRanges[dr] {
			return PerformanceRequest{}, apperr.New(apperr.Validation, "invalid date_range %q", dateRange)
		}
		req.DateRange = dr
	}
	if campaignIDs != "" {
		for _, id := range strings.Split(campaignIDs, ",") {
			id = strings.TrimSpace(id)
			if !isNumericID(id) {
				return PerformanceRequest{}, apperr.New(apperr.Validation,
					"invalid campaign id %q in campaign_ids", id)
			}
			req.CampaignIDs = append(req.CampaignIDs, id)
		}
	}
	return req, nil
}

// BidBudgetUpdate mutates a campaign's budget and/or bid. At least one of the
// two values must be present, and each must be strictly positive when it is.
type BidBudgetUpdate struct {
	CustomerID string   `json:"customerId"`
	CampaignID string   `json:"campaignId"`
	NewBudget  *float64 `json:"newBudget,omitempty"`
	NewBid     *float64 `json:"newBid,omitempty"`
}

func (u BidBudgetUpdate) Validate() error {
	if err := validCustomerID(u.CustomerID); err != nil {
		return err
	}
	if !isNumericID(u.CampaignID) {
		return apperr.New(apperr.Validation, "campaignId must be a non-empty numeric string")
	}
	if u.NewBudget == nil && u.NewBid == nil {
		return apperr.New(apperr.Validation, "either newBudget or newBid must be provided")
	}
	if u.NewBudget != nil && *u.NewBudget <= 0 {
		return apperr.New(apperr.Validation, "newBudget must be positive")
	}
	if u.NewBid != nil && *u.NewBid <= 0 {
		return apperr.New(apperr.Validation, "newBid must be positive")
	}
	return nil
}

// BiddingStrategyUpdate switches a campaign to one of the enumerated bidding
// strategies.
type BiddingStrategyUpdate struct {
	CustomerID      string `json:"customerId"`
	CampaignID      string `json:"campaignId"`
	BiddingStrategy string `json:"biddingStrategy"`
}

func (u BiddingStrategyUpdate) Validate() error {
	if err := validCustomerID(u.CustomerID); err != nil {
		return err
	}
	if !isNumericID(u.CampaignID) {
		return apperr.New(apperr.Validation, "campaignId must be a non-empty numeric string")
	}
	if _, ok := biddingStrategyPayloads[u.BiddingStrategy]; !ok {
		return apperr.New(apperr.Validation, "invalid bidding strategy %q", u.BiddingStrategy)
	}
	return nil
}

func validCustomerID(id string) error {
	if !isNumericID(id) {
		return apperr.New(apperr.Validation, "customer id must be a non-empty numeric string")
	}
	return nil
}

// isNumericID accepts opaque numeric identifiers only; ids are never parsed
// for meaning.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
