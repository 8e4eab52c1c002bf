// Package ads implements the gateway operations: listing accounts and
// campaigns, reporting performance, and mutating budget, bid, and bidding
// strategy. Each operation is stateless; the only ambient input is the
// upstream client built from the credential context at startup.
package ads

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SuperFreelas/google-ads-gateway/internal/apperr"
	"github.com/SuperFreelas/google-ads-gateway/internal/upstream"
)

type Service struct {
	client          upstream.Client
	loginCustomerID string
}

func NewService(client upstream.Client, loginCustomerID string) *Service {
	return &Service{client: client, loginCustomerID: loginCustomerID}
}

// ListAccounts returns the client accounts reachable from the login customer,
// in upstream order.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	const query = `
		SELECT
			customer_client.client_customer,
			customer_client.descriptive_name,
			customer_client.currency_code,
			customer_client.time_zone,
			customer_client.status
		FROM customer_client
		WHERE customer_client.manager = FALSE`

	rows, err := s.client.Search(ctx, s.loginCustomerID, query)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(rows))
	for _, r := range rows {
		cc := r.CustomerClient
		if cc == nil {
			continue
		}
		accounts = append(accounts, Account{
			ID:       lastSegment(cc.ClientCustomer),
			Name:     cc.DescriptiveName,
			Currency: cc.CurrencyCode,
			Timezone: cc.TimeZone,
			Status:   cc.Status,
		})
	}
	log.Info().Int("count", len(accounts)).Msg("listed client accounts")
	return accounts, nil
}

// ListCampaigns returns the customer's campaigns, in upstream order. The
// status filter is pushed into the query and re-applied on the normalized
// rows.
func (s *Service) ListCampaigns(ctx context.Context, req CampaignListRequest) ([]Campaign, error) {
	query := `
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			campaign.advertising_channel_type,
			campaign.bidding_strategy_type,
			campaign.target_spend.cpc_bid_ceiling_micros,
			campaign_budget.amount_micros,
			campaign.campaign_budget
		FROM campaign`
	if req.Status != "" {
		query += fmt.Sprintf(" WHERE campaign.status = '%s'", req.Status)
	}

	rows, err := s.client.Search(ctx, req.CustomerID, query)
	if err != nil {
		return nil, err
	}

	campaigns := make([]Campaign, 0, len(rows))
	for _, r := range rows {
		c := mapCampaign(r)
		if c == nil {
			continue
		}
		if req.Status != "" && c.Status != req.Status {
			continue
		}
		campaigns = append(campaigns, *c)
	}
	log.Info().Str("customer_id", req.CustomerID).Int("count", len(campaigns)).Msg("listed campaigns")
	return campaigns, nil
}

// GetPerformance returns aggregated metrics per campaign for the requested
// reporting window.
func (s *Service) GetPerformance(ctx context.Context, req PerformanceRequest) ([]PerformanceRow, error) {
	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			metrics.impressions,
			metrics.clicks,
			metrics.cost_micros,
			metrics.conversions,
			metrics.average_cpc
		FROM campaign
		WHERE segments.date DURING %s`, req.DateRange)
	if len(req.CampaignIDs) > 0 {
		query += fmt.Sprintf(" AND campaign.id IN (%s)", strings.Join(req.CampaignIDs, ", "))
	}

	rows, err := s.client.Search(ctx, req.CustomerID, query)
	if err != nil {
		return nil, err
	}

	report := make([]PerformanceRow, 0, len(rows))
	for _, r := range rows {
		if r.Campaign == nil {
			continue
		}
		row := PerformanceRow{
			CampaignID:   r.Campaign.ID,
			CampaignName: r.Campaign.Name,
			Status:       CampaignStatus(r.Campaign.Status),
			DateRange:    req.DateRange,
		}
		if m := r.Metrics; m != nil {
			row.Impressions = parseCount(m.Impressions)
			row.Clicks = parseCount(m.Clicks)
			row.Cost = microsToUnits(m.CostMicros)
			row.Conversions = m.Conversions
			row.AverageCPC = m.AverageCpc / microsPerUnit
		}
		report = append(report, row)
	}
	log.Info().Str("customer_id", req.CustomerID).Str("date_range", string(req.DateRange)).
		Int("count", len(report)).Msg("fetched campaign performance")
	return report, nil
}

// UpdateBidBudget mutates the campaign's budget and/or bid. The mutation is
// at-least-once: resubmitting the same values produces the same end state.
func (s *Service) UpdateBidBudget(ctx context.Context, req BidBudgetUpdate) (UpdateResult, error) {
	if err := req.Validate(); err != nil {
		return UpdateResult{}, err
	}

	info, err := s.campaignInfo(ctx, req.CustomerID, req.CampaignID)
	if err != nil {
		return UpdateResult{}, err
	}

	var updated []string
	if req.NewBudget != nil {
		if info.CampaignBudget == "" {
			return UpdateResult{}, apperr.New(apperr.Upstream,
				"campaign %s has no budget resource", req.CampaignID)
		}
		micros := unitsToMicros(*req.NewBudget)
		log.Debug().Str("campaign_id", req.CampaignID).Int64("budget_micros", micros).Msg("mutating budget")
		if err := s.client.MutateCampaignBudget(ctx, req.CustomerID, info.CampaignBudget, micros); err != nil {
			return UpdateResult{}, err
		}
		updated = append(updated, "budget")
	}
	if req.NewBid != nil {
		update := map[string]any{
			"resourceName": campaignResource(req.CustomerID, req.CampaignID),
			"targetSpend": map[string]any{
				"cpcBidCeilingMicros": strconv.FormatInt(unitsToMicros(*req.NewBid), 10),
			},
		}
		if err := s.client.MutateCampaign(ctx, req.CustomerID, update, "targetSpend.cpcBidCeilingMicros"); err != nil {
			return UpdateResult{}, err
		}
		updated = append(updated, "bid")
	}

	log.Info().Str("customer_id", req.CustomerID).Str("campaign_id", req.CampaignID).
		Strs("updated", updated).Msg("updated bid/budget")
	return UpdateResult{Success: true, UpdatedFields: updated}, nil
}

// biddingStrategyPayloads maps each accepted strategy to its mutation
// payload. TARGET_CPA and TARGET_ROAS carry the platform's minimum defaults.
var biddingStrategyPayloads = map[string]map[string]any{
	"MAXIMIZE_CONVERSIONS":      {"maximizeConversions": map[string]any{}},
	"MAXIMIZE_CONVERSION_VALUE": {"maximizeConversionValue": map[string]any{}},
	"TARGET_CPA":                {"targetCpa": map[string]any{"targetCpaMicros": "1000000"}},
	"TARGET_ROAS":               {"targetRoas": map[string]any{"targetRoas": 1.0}},
	"MANUAL_CPC":                {"manualCpc": map[string]any{"enhancedCpcEnabled": true}},
	"TARGET_SPEND":              {"targetSpend": map[string]any{}},
}

// UpdateBiddingStrategy switches the campaign to one of the enumerated
// bidding strategies.
func (s *Service) UpdateBiddingStrategy(ctx context.Context, req BiddingStrategyUpdate) (UpdateResult, error) {
	if err := req.Validate(); err != nil {
		return UpdateResult{}, err
	}
	if _, err := s.campaignInfo(ctx, req.CustomerID, req.CampaignID); err != nil {
		return UpdateResult{}, err
	}

	update := map[string]any{
		"resourceName": campaignResource(req.CustomerID, req.CampaignID),
	}
	for k, v := range biddingStrategyPayloads[req.BiddingStrategy] {
		update[k] = v
	}
	if err := s.client.MutateCampaign(ctx, req.CustomerID, update, "biddingStrategy"); err != nil {
		return UpdateResult{}, err
	}

	log.Info().Str("customer_id", req.CustomerID).Str("campaign_id", req.CampaignID).
		Str("strategy", req.BiddingStrategy).Msg("updated bidding strategy")
	return UpdateResult{Success: true, UpdatedFields: []string{"bidding_strategy"}}, nil
}

// campaignInfo looks up a single campaign, mainly for its budget resource
// name. Zero rows means the campaign does not exist under this customer.
func (s *Service) campaignInfo(ctx context.Context, customerID, campaignID string) (*upstream.CampaignResult, error) {
	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			campaign.bidding_strategy_type,
			campaign.campaign_budget
		FROM campaign
		WHERE campaign.id = %s`, campaignID)

	rows, err := s.client.Search(ctx, customerID, query)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.Campaign != nil {
			return r.Campaign, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "campaign %s not found for customer %s", campaignID, customerID)
}

func mapCampaign(r upstream.SearchRow) *Campaign {
	if r.Campaign == nil {
		return nil
	}
	c := &Campaign{
		ID:              r.Campaign.ID,
		Name:            r.Campaign.Name,
		Status:          CampaignStatus(r.Campaign.Status),
		Type:            r.Campaign.AdvertisingChannelType,
		BiddingStrategy: r.Campaign.BiddingStrategyType,
	}
	if r.CampaignBudget != nil {
		c.Budget = microsToUnits(r.CampaignBudget.AmountMicros)
	}
	if ts := r.Campaign.TargetSpend; ts != nil {
		c.Bid = microsToUnits(ts.CpcBidCeilingMicros)
	}
	return c
}

func campaignResource(customerID, campaignID string) string {
	return fmt.Sprintf("customers/%s/campaigns/%s", customerID, campaignID)
}

func lastSegment(resource string) string {
	if i := strings.LastIndexByte(resource, '/'); i >= 0 {
		return resource[i+1:]
	}
	return resource
}
