package ads

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuperFreelas/google-ads-gateway/internal/apperr"
	"github.com/SuperFreelas/google-ads-gateway/internal/upstream"
)

type campaignMutation struct {
	customerID string
	update     map[string]any
	updateMask string
}

// fakeClient is a stateful upstream stub: budget mutations are reflected in
// subsequent searches.
type fakeClient struct {
	rows      []upstream.SearchRow
	searchErr error
	mutateErr error

	queries           []string
	campaignMutations []campaignMutation
}

func (f *fakeClient) Search(_ context.Context, _ string, query string) ([]upstream.SearchRow, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.rows, nil
}

func (f *fakeClient) MutateCampaignBudget(_ context.Context, _ string, budgetResource string, amountMicros int64) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i := range f.rows {
		if b := f.rows[i].CampaignBudget; b != nil && b.ResourceName == budgetResource {
			b.AmountMicros = strconv.FormatInt(amountMicros, 10)
		}
	}
	return nil
}

func (f *fakeClient) MutateCampaign(_ context.Context, customerID string, update map[string]any, updateMask string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.campaignMutations = append(f.campaignMutations, campaignMutation{customerID, update, updateMask})
	return nil
}

func campaignRow(id, name, status, budgetResource, budgetMicros string) upstream.SearchRow {
	row := upstream.SearchRow{
		Campaign: &upstream.CampaignResult{
			ID:                     id,
			Name:                   name,
			Status:                 status,
			AdvertisingChannelType: "SEARCH",
			BiddingStrategyType:    "TARGET_SPEND",
			CampaignBudget:         budgetResource,
		},
	}
	if budgetResource != "" {
		row.CampaignBudget = &upstream.CampaignBudgetResult{
			ResourceName: budgetResource,
			AmountMicros: budgetMicros,
		}
	}
	return row
}

func TestListCampaigns_StatusFilter(t *testing.T) {
	rows := []upstream.SearchRow{
		campaignRow("1", "Search A", "ENABLED", "customers/123/campaignBudgets/11", "5000000"),
		campaignRow("2", "Search B", "ENABLED", "customers/123/campaignBudgets/12", "7500000"),
		campaignRow("3", "Display C", "PAUSED", "customers/123/campaignBudgets/13", "1000000"),
	}

	tests := []struct {
		name    string
		status  string
		wantIDs []string
	}{
		{"no filter returns all in order", "", []string{"1", "2", "3"}},
		{"filter paused", "PAUSED", []string{"3"}},
		{"filter enabled", "ENABLED", []string{"1", "2"}},
		{"filter removed matches none", "REMOVED", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{rows: rows}
			svc := NewService(client, "999")

			req, err := NewCampaignListRequest("123", tt.status)
			require.NoError(t, err)

			campaigns, err := svc.ListCampaigns(context.Background(), req)
			require.NoError(t, err)

			var ids []string
			for _, c := range campaigns {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListCampaigns_BudgetFromMicros(t *testing.T) {
	client := &fakeClient{rows: []upstream.SearchRow{
		campaignRow("1", "Search A", "ENABLED", "customers/123/campaignBudgets/11", "2500000"),
	}}
	svc := NewService(client, "999")

	req, err := NewCampaignListRequest("123", "")
	require.NoError(t, err)
	campaigns, err := svc.ListCampaigns(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, 2.5, campaigns[0].Budget)
}

func TestNewCampaignListRequest_Validation(t *testing.T) {
	tests := []struct {
		name       string
		customerID string
		status     string
	}{
		{"invalid status", "123", "ARCHIVED"},
		{"unknown lowercase status", "123", "running"},
		{"empty customer id", "", ""},
		{"non numeric customer id", "12a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCampaignListRequest(tt.customerID, tt.status)
			require.Error(t, err)
			assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		})
	}

	// lowercase variants of valid statuses are accepted
	req, err := NewCampaignListRequest("123", "paused")
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, req.Status)
}

func TestNewPerformanceRequest(t *testing.T) {
	t.Run("defaults to last 7 days", func(t *testing.T) {
		req, err := NewPerformanceRequest("123", "", "")
		require.NoError(t, err)
		assert.Equal(t, RangeLast7, req.DateRange)
		assert.Empty(t, req.CampaignIDs)
	})

	t.Run("parses campaign id list", func(t *testing.T) {
		req, err := NewPerformanceRequest("123", "456, 789", "LAST_30_DAYS")
		require.NoError(t, err)
		assert.Equal(t, []string{"456", "789"}, req.CampaignIDs)
		assert.Equal(t, RangeLast30, req.DateRange)
	})

	t.Run("rejects unknown date range", func(t *testing.T) {
		_, err := NewPerformanceRequest("123", "", "LAST_30_YEARS")
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("rejects malformed campaign ids", func(t *testing.T) {
		_, err := NewPerformanceRequest("123", "456,abc", "")
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})
}

func TestGetPerformance(t *testing.T) {
	client := &fakeClient{rows: []upstream.SearchRow{
		{
			Campaign: &upstream.CampaignResult{ID: "456", Name: "Search A", Status: "ENABLED"},
			Metrics: &upstream.MetricsResult{
				Impressions: "1000",
				Clicks:      "50",
				CostMicros:  "12500000",
				Conversions: 4,
				AverageCpc:  250000,
			},
		},
	}}
	svc := NewService(client, "999")

	req, err := NewPerformanceRequest("123", "456", "LAST_30_DAYS")
	require.NoError(t, err)

	report, err := svc.GetPerformance(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report, 1)

	row := report[0]
	assert.Equal(t, "456", row.CampaignID)
	assert.Equal(t, RangeLast30, row.DateRange)
	assert.Equal(t, int64(1000), row.Impressions)
	assert.Equal(t, int64(50), row.Clicks)
	assert.Equal(t, 12.5, row.Cost)
	assert.Equal(t, 4.0, row.Conversions)
	assert.Equal(t, 0.25, row.AverageCPC)

	require.Len(t, client.queries, 1)
	assert.Contains(t, client.queries[0], "DURING LAST_30_DAYS")
	assert.Contains(t, client.queries[0], "campaign.id IN (456)")
}

func TestUpdateBidBudget_Validation(t *testing.T) {
	budget := 100.0
	negative := -5.0

	tests := []struct {
		name string
		req  BidBudgetUpdate
	}{
		{"neither budget nor bid", BidBudgetUpdate{CustomerID: "123", CampaignID: "456"}},
		{"negative budget", BidBudgetUpdate{CustomerID: "123", CampaignID: "456", NewBudget: &negative}},
		{"negative bid", BidBudgetUpdate{CustomerID: "123", CampaignID: "456", NewBid: &negative}},
		{"missing campaign id", BidBudgetUpdate{CustomerID: "123", NewBudget: &budget}},
		{"missing customer id", BidBudgetUpdate{CampaignID: "456", NewBudget: &budget}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			svc := NewService(client, "999")

			_, err := svc.UpdateBidBudget(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.Validation, apperr.KindOf(err))
			assert.Empty(t, client.queries, "validation failures must not reach upstream")
		})
	}
}

func TestUpdateBidBudget_BudgetRoundTrip(t *testing.T) {
	client := &fakeClient{rows: []upstream.SearchRow{
		campaignRow("456", "Search A", "ENABLED", "customers/123/campaignBudgets/11", "5000000"),
	}}
	svc := NewService(client, "999")

	budget := 100.0
	result, err := svc.UpdateBidBudget(context.Background(), BidBudgetUpdate{
		CustomerID: "123",
		CampaignID: "456",
		NewBudget:  &budget,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"budget"}, result.UpdatedFields)

	// reading the campaign back reflects the new budget
	listReq, err := NewCampaignListRequest("123", "")
	require.NoError(t, err)
	campaigns, err := svc.ListCampaigns(context.Background(), listReq)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, 100.0, campaigns[0].Budget)
}

func TestUpdateBidBudget_Bid(t *testing.T) {
	client := &fakeClient{rows: []upstream.SearchRow{
		campaignRow("456", "Search A", "ENABLED", "customers/123/campaignBudgets/11", "5000000"),
	}}
	svc := NewService(client, "999")

	bid := 1.5
	result, err := svc.UpdateBidBudget(context.Background(), BidBudgetUpdate{
		CustomerID: "123",
		CampaignID: "456",
		NewBid:     &bid,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bid"}, result.UpdatedFields)

	require.Len(t, client.campaignMutations, 1)
	m := client.campaignMutations[0]
	assert.Equal(t, "targetSpend.cpcBidCeilingMicros", m.updateMask)
	assert.Equal(t, "customers/123/campaigns/456", m.update["resourceName"])
	ts := m.update["targetSpend"].(map[string]any)
	assert.Equal(t, "1500000", ts["cpcBidCeilingMicros"])
}

func TestUpdateBidBudget_CampaignNotFound(t *testing.T) {
	client := &fakeClient{} // no campaigns upstream
	svc := NewService(client, "999")

	budget := 100.0
	_, err := svc.UpdateBidBudget(context.Background(), BidBudgetUpdate{
		CustomerID: "123",
		CampaignID: "456",
		NewBudget:  &budget,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestUpdateBiddingStrategy(t *testing.T) {
	t.Run("rejects unknown strategy before upstream call", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewService(client, "999")

		_, err := svc.UpdateBiddingStrategy(context.Background(), BiddingStrategyUpdate{
			CustomerID:      "123",
			CampaignID:      "456",
			BiddingStrategy: "MAXIMIZE_VIBES",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		assert.Empty(t, client.queries)
	})

	t.Run("mutates bidding strategy", func(t *testing.T) {
		client := &fakeClient{rows: []upstream.SearchRow{
			campaignRow("456", "Search A", "ENABLED", "customers/123/campaignBudgets/11", "5000000"),
		}}
		svc := NewService(client, "999")

		result, err := svc.UpdateBiddingStrategy(context.Background(), BiddingStrategyUpdate{
			CustomerID:      "123",
			CampaignID:      "456",
			BiddingStrategy: "MAXIMIZE_CONVERSIONS",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"bidding_strategy"}, result.UpdatedFields)

		require.Len(t, client.campaignMutations, 1)
		m := client.campaignMutations[0]
		assert.Equal(t, "biddingStrategy", m.updateMask)
		assert.Contains(t, m.update, "maximizeConversions")
	})
}

func TestListAccounts_Mapping(t *testing.T) {
	client := &fakeClient{rows: []upstream.SearchRow{
		{CustomerClient: &upstream.CustomerClientResult{
			ClientCustomer:  "customers/1234567890",
			DescriptiveName: "Client Account 1",
			CurrencyCode:    "USD",
			TimeZone:        "America/Sao_Paulo",
			Status:          "ENABLED",
		}},
		{CustomerClient: &upstream.CustomerClientResult{
			ClientCustomer:  "customers/987654321",
			DescriptiveName: "Client Account 2",
			CurrencyCode:    "EUR",
			TimeZone:        "Europe/Berlin",
			Status:          "ENABLED",
		}},
	}}
	svc := NewService(client, "999")

	accounts, err := svc.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, Account{
		ID:       "1234567890",
		Name:     "Client Account 1",
		Currency: "USD",
		Timezone: "America/Sao_Paulo",
		Status:   "ENABLED",
	}, accounts[0])

	require.Len(t, client.queries, 1)
	assert.Contains(t, client.queries[0], "FROM customer_client")
	assert.True(t, strings.Contains(client.queries[0], "customer_client.manager = FALSE"))
}
