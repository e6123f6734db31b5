package models

import "time"

// CampaignStatus mirrors the lifecycle shown in the back-office.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignSuspended CampaignStatus = "suspended"
	CampaignExpired   CampaignStatus = "expired"
)

// Campaign is a fundraising campaign as returned by /campaigns.
type Campaign struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	TargetAmount     float64        `json:"target_amount"`
	CurrentAmount    float64        `json:"current_amount"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          time.Time      `json:"end_date"`
	ImageURL         string         `json:"image_url,omitempty"`
	Status           CampaignStatus `json:"status"`
	RecipientID      int64          `json:"recipient_id"`
	CreatedByID      int64          `json:"created_by_id"`
	RecipientName    string         `json:"recipient_name,omitempty"`
	CreatedByName    string         `json:"created_by_name,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Progress returns the collected share of the target in [0, 1].
func (c *Campaign) Progress() float64 {
	if c.TargetAmount <= 0 {
		return 0
	}
	p := c.CurrentAmount / c.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}

// CampaignInput is the payload for creating or updating a campaign.
type CampaignInput struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	TargetAmount     float64   `json:"target_amount"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	ImageURL         string    `json:"image_url,omitempty"`
	RecipientID      int64     `json:"recipient_id"`
}
