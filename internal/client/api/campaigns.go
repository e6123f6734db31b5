package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

// CampaignFilter narrows ListCampaigns. Zero fields are not sent.
type CampaignFilter struct {
	Status models.CampaignStatus
	Search string
	Page   int
	Limit  int
}

func (f CampaignFilter) values() url.Values {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

func (c *Client) ListCampaigns(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := c.do(ctx, http.MethodGet, "/public/campaigns", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodGet, "/public/campaigns/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodPost, "/cms/campaigns", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCampaign(ctx context.Context, id int64, in models.CampaignInput) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodPut, "/cms/campaigns/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/cms/campaigns/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
