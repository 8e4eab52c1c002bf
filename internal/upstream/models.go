package upstream

// Typed projections of the googleAds:search response. The REST API encodes
// int64 fields as JSON strings; doubles come back as numbers.

type SearchRow struct {
	Campaign       *CampaignResult       `json:"campaign,omitempty"`
	CampaignBudget *CampaignBudgetResult `json:"campaignBudget,omitempty"`
	CustomerClient *CustomerClientResult `json:"customerClient,omitempty"`
	Metrics        *MetricsResult        `json:"metrics,omitempty"`
}

type CampaignResult struct {
	ResourceName           string       `json:"resourceName"`
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Status                 string       `json:"status"`
	AdvertisingChannelType string       `json:"advertisingChannelType"`
	BiddingStrategyType    string       `json:"biddingStrategyType"`
	CampaignBudget         string       `json:"campaignBudget"`
	TargetSpend            *TargetSpend `json:"targetSpend,omitempty"`
}

type TargetSpend struct {
	CpcBidCeilingMicros string `json:"cpcBidCeilingMicros"`
}

type CampaignBudgetResult struct {
	ResourceName string `json:"resourceName"`
	AmountMicros string `json:"amountMicros"`
}

type CustomerClientResult struct {
	ClientCustomer  string `json:"clientCustomer"`
	DescriptiveName string `json:"descriptiveName"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
	Status          string `json:"status"`
}

type MetricsResult struct {
	Impressions string  `json:"impressions"`
	Clicks      string  `json:"clicks"`
	CostMicros  string  `json:"costMicros"`
	Conversions float64 `json:"conversions"`
	AverageCpc  float64 `json:"averageCpc"`
}

type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

type searchResponse struct {
	Results       []SearchRow `json:"results"`
	NextPageToken string      `json:"nextPageToken"`
}

type mutateOperation struct {
	UpdateMask string `json:"updateMask"`
	Update     any    `json:"update"`
}

type mutateRequest struct {
	Operations []mutateOperation `json:"operations"`
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}
