package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

func (c *Client) CreateDonation(ctx context.Context, in models.DonationInput) (*models.Donation, error) {
	var out models.Donation
	if err := c.do(ctx, http.MethodPost, "/donations", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDonations returns the signed-in donor's own donations.
func (c *Client) ListDonations(ctx context.Context) ([]models.Donation, error) {
	var out []models.Donation
	if err := c.do(ctx, http.MethodGet, "/donations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCampaignDonations is the back-office view of one campaign's donations.
func (c *Client) ListCampaignDonations(ctx context.Context, campaignID int64) ([]models.Donation, error) {
	q := url.Values{"campaign_id": {strconv.FormatInt(campaignID, 10)}}
	var out []models.Donation
	if err := c.do(ctx, http.MethodGet, "/cms/donations", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
