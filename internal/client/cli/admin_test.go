package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampaign(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
	stubInputs(t, []string{
		"School meals", "Lunch for 200 kids", "Long text", "1500",
		"2025-03-01", "2025-06-30", "7", "",
	})

	require.NoError(t, a.NewCampaign(context.Background()))
	assert.Equal(t, models.CampaignInput{
		Title:            "School meals",
		ShortDescription: "Lunch for 200 kids",
		Description:      "Long text",
		TargetAmount:     1500,
		StartDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		RecipientID:      7,
	}, plat.created)
	assert.Contains(t, out.String(), "Created campaign #12 School meals [draft]")
}

func TestNewCampaign_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   string
	}{
		{"amount", []string{"T", "", "", "lots"}, `invalid amount "lots"`},
		{"date", []string{"T", "", "", "10", "March"}, `invalid date "March"`},
		{"order", []string{"T", "", "", "10", "2025-06-30", "2025-03-01", "7", ""}, "End date is before start date"},
		{"title", []string{"", "", "", "10", "2025-03-01", "2025-06-30", "7", ""}, "Title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
			stubInputs(t, tt.inputs)

			assert.Error(t, a.NewCampaign(context.Background()))
			assert.Zero(t, plat.created)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestEditCampaign_KeepsEmptyAnswers(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	plat.campaign = &models.Campaign{
		ID: 4, Title: "Books", ShortDescription: "Library", Description: "Long",
		TargetAmount: 200, EndDate: end, RecipientID: 9,
	}
	stubInputs(t, []string{"", "", "350", ""})

	require.NoError(t, a.EditCampaign(context.Background(), "4"))
	assert.Equal(t, int64(4), plat.updatedID)
	assert.Equal(t, models.CampaignInput{
		Title: "Books", ShortDescription: "Library", Description: "Long",
		TargetAmount: 350, EndDate: end, RecipientID: 9,
	}, plat.updated)
	assert.Contains(t, out.String(), "Updated campaign #4 Books")
}

func TestEditCampaign_LoadFailure(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
	plat.err = errors.New("forbidden")

	assert.Error(t, a.EditCampaign(context.Background(), "4"))
	assert.Zero(t, plat.updatedID)
	assert.Contains(t, out.String(), "Could not load campaign: forbidden")
}

func TestDeleteCampaign(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
	stubInputs(t, []string{"no", "yes"})

	require.NoError(t, a.DeleteCampaign(context.Background(), "5"))
	assert.Zero(t, plat.deletedID)
	assert.Contains(t, out.String(), "Cancelled")

	require.NoError(t, a.DeleteCampaign(context.Background(), "5"))
	assert.Equal(t, int64(5), plat.deletedID)
	assert.Contains(t, out.String(), "Deleted campaign #5")
}

func TestCampaignDonations(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{state: signedIn()}, "")
	plat.donations = []models.Donation{
		{ID: 1, DonorName: "Bob", Amount: 30, PaymentStatus: models.PaymentCompleted},
		{ID: 2, DonorID: 8, Amount: 5, PaymentStatus: models.PaymentFailed},
	}

	require.NoError(t, a.CampaignDonations(context.Background(), "6"))
	assert.Equal(t, int64(6), plat.byCampaign)
	assert.Contains(t, out.String(), "Bob")
	assert.Contains(t, out.String(), "#8")
	assert.Contains(t, out.String(), "Completed total: 30.00")
}

func TestAdminCommands_RequireLogin(t *testing.T) {
	a, _, plat, out := newTestApp(&fakeSession{}, "")
	ctx := context.Background()

	require.NoError(t, a.NewCampaign(ctx))
	require.NoError(t, a.EditCampaign(ctx, "1"))
	require.NoError(t, a.DeleteCampaign(ctx, "1"))
	require.NoError(t, a.CampaignDonations(ctx, "1"))
	assert.Zero(t, plat.created)
	assert.Zero(t, plat.deletedID)
	assert.Contains(t, out.String(), "Please log in first")
}
