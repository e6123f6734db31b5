package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Donation is a single contribution to a campaign.
type Donation struct {
	ID            int64         `json:"id"`
	Amount        float64       `json:"amount"`
	Message       string        `json:"message,omitempty"`
	DonorID       int64         `json:"donor_id"`
	CampaignID    int64         `json:"campaign_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	DonorName     string        `json:"donor_name,omitempty"`
	CampaignTitle string        `json:"campaign_title,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// DonationInput is what a donor submits from the storefront.
type DonationInput struct {
	Amount        float64 `json:"amount"`
	Message       string  `json:"message,omitempty"`
	CampaignID    int64   `json:"campaign_id"`
	PaymentMethod string  `json:"payment_method"`
}
