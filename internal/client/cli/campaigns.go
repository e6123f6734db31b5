package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/charitydesk/internal/client/api"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

func (a *App) Campaigns(ctx context.Context) error {
	list, err := a.platform.ListCampaigns(ctx, api.CampaignFilter{Status: models.CampaignActive})
	if err != nil {
		a.println("Could not load campaigns:", err)
		return err
	}
	if len(list) == 0 {
		a.println("No active campaigns")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRAISED\tTARGET\tPROGRESS")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.0f%%\n", c.ID, c.Title, c.CurrentAmount, c.TargetAmount, c.Progress()*100)
	}
	return w.Flush()
}

func (a *App) Campaign(ctx context.Context, id string) error {
	cid, err := parseID(id)
	if err != nil {
		a.println(err)
		return err
	}

	c, err := a.platform.GetCampaign(ctx, cid)
	if err != nil {
		a.println("Could not load campaign:", err)
		return err
	}

	a.printf("#%d %s [%s]\n", c.ID, c.Title, c.Status)
	if c.ShortDescription != "" {
		a.println(c.ShortDescription)
	}
	a.printf("Raised %.2f of %.2f (%.0f%%)\n", c.CurrentAmount, c.TargetAmount, c.Progress()*100)
	if !c.EndDate.IsZero() {
		a.printf("Ends %s\n", c.EndDate.Format(dateLayout))
	}
	return nil
}

func (a *App) Donate(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	cid, err := GetID(a.reader, "Campaign ID", a.out)
	if err != nil {
		a.println(err)
		return err
	}
	amount, err := GetAmount(a.reader, "Amount", a.out)
	if err != nil {
		a.println(err)
		return err
	}
	message, err := getSimpleText(a.reader, "Message (optional)", a.out)
	if err != nil {
		return err
	}
	method, err := getSimpleText(a.reader, "Payment method (default: card)", a.out)
	if err != nil {
		return err
	}
	if method == "" {
		method = "card"
	}

	d, err := a.platform.CreateDonation(ctx, models.DonationInput{
		Amount:        amount,
		Message:       message,
		CampaignID:    cid,
		PaymentMethod: method,
	})
	if err != nil {
		a.println("Donation failed:", err)
		return err
	}
	a.printf("Thank you! Donation #%d of %.2f is %s\n", d.ID, d.Amount, d.PaymentStatus)
	return nil
}

func (a *App) Donations(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	list, err := a.platform.ListDonations(ctx)
	if err != nil {
		a.println("Could not load donations:", err)
		return err
	}
	if len(list) == 0 {
		a.println("No donations yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAMPAIGN\tAMOUNT\tSTATUS\tDATE")
	for _, d := range list {
		campaign := d.CampaignTitle
		if campaign == "" {
			campaign = fmt.Sprintf("#%d", d.CampaignID)
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", d.ID, campaign, d.Amount, d.PaymentStatus, d.CreatedAt.Format(dateLayout))
	}
	return w.Flush()
}
