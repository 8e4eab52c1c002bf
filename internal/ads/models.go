package ads

import "strconv"

// CampaignStatus is the enumerated campaign state on the platform.
type CampaignStatus string

const (
	StatusEnabled CampaignStatus = "ENABLED"
	StatusPaused  CampaignStatus = "PAUSED"
	StatusRemoved CampaignStatus = "REMOVED"
)

var campaignStatuses = map[CampaignStatus]bool{
	StatusEnabled: true,
	StatusPaused:  true,
	StatusRemoved: true,
}

// DateRange is an enumerated reporting window accepted by GAQL DURING.
type DateRange string

const (
	RangeToday     DateRange = "TODAY"
	RangeYesterday DateRange = "YESTERDAY"
	RangeLast7     DateRange = "LAST_7_DAYS"
	RangeLast14    DateRange = "LAST_14_DAYS"
	RangeLast30    DateRange = "LAST_30_DAYS"
	RangeThisMonth DateRange = "THIS_MONTH"
	RangeLastMonth DateRange = "LAST_MONTH"
)

var dateRanges = map[DateRange]bool{
	RangeToday:     true,
	RangeYesterday: true,
	RangeLast7:     true,
	RangeLast14:    true,
	RangeLast30:    true,
	RangeThisMonth: true,
	RangeLastMonth: true,
}

// Account is the read-only projection of a client account.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Status   string `json:"status"`
}

// Campaign is the read-only projection of a campaign; budget and bid are in
// currency units, converted from micros.
type Campaign struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Status          CampaignStatus `json:"status"`
	Type            string         `json:"type"`
	BiddingStrategy string         `json:"biddingStrategy"`
	Budget          float64        `json:"budget"`
	Bid             float64        `json:"bid"`
}

// PerformanceRow is one (campaign, metrics) aggregate for the requested
// reporting window.
type PerformanceRow struct {
	CampaignID   string         `json:"campaign_id"`
	CampaignName string         `json:"campaign_name"`
	Status       CampaignStatus `json:"status"`
	DateRange    DateRange      `json:"date_range"`
	Impressions  int64          `json:"impressions"`
	Clicks       int64          `json:"clicks"`
	Cost         float64        `json:"cost"`
	Conversions  float64        `json:"conversions"`
	AverageCPC   float64        `json:"average_cpc"`
}

// UpdateResult confirms a mutation, naming the fields actually changed.
type UpdateResult struct {
	Success       bool     `json:"success"`
	UpdatedFields []string `json:"updated_fields"`
}

const microsPerUnit = 1_000_000

func microsToUnits(micros string) float64 {
	n, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / microsPerUnit
}

func unitsToMicros(units float64) int64 {
	return int64(units * microsPerUnit)
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
