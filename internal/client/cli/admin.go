package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

// Back-office commands. The platform decides who may use them; a 403 is
// shown as-is and leaves the session alone.

func (a *App) NewCampaign(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	var in models.CampaignInput
	var err error
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.ShortDescription, err = getSimpleText(a.reader, "Short description", a.out); err != nil {
		return err
	}
	if in.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.TargetAmount, err = promptParsed(a, "Target amount", parseAmount); err != nil {
		return err
	}
	if in.StartDate, err = promptParsed(a, "Start date (YYYY-MM-DD)", parseDate); err != nil {
		return err
	}
	if in.EndDate, err = promptParsed(a, "End date (YYYY-MM-DD)", parseDate); err != nil {
		return err
	}
	if in.RecipientID, err = promptParsed(a, "Recipient ID", parseID); err != nil {
		return err
	}
	if in.ImageURL, err = getSimpleText(a.reader, "Image URL (optional)", a.out); err != nil {
		return err
	}
	if in.Title == "" {
		a.println("Title is required")
		return errors.New("title is required")
	}
	if in.EndDate.Before(in.StartDate) {
		a.println("End date is before start date")
		return errors.New("end date before start date")
	}

	c, err := a.platform.CreateCampaign(ctx, in)
	if err != nil {
		a.println("Campaign not created:", err)
		return err
	}
	a.printf("Created campaign #%d %s [%s]\n", c.ID, c.Title, c.Status)
	return nil
}

// EditCampaign loads campaign id and prompts for each field; empty answers
// keep the current value.
func (a *App) EditCampaign(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	cid, err := parseID(id)
	if err != nil {
		a.println(err)
		return err
	}

	cur, err := a.platform.GetCampaign(ctx, cid)
	if err != nil {
		a.println("Could not load campaign:", err)
		return err
	}
	in := models.CampaignInput{
		Title:            cur.Title,
		Description:      cur.Description,
		ShortDescription: cur.ShortDescription,
		TargetAmount:     cur.TargetAmount,
		StartDate:        cur.StartDate,
		EndDate:          cur.EndDate,
		ImageURL:         cur.ImageURL,
		RecipientID:      cur.RecipientID,
	}

	if err := keepOr(a, "Title", &in.Title, parseText); err != nil {
		return err
	}
	if err := keepOr(a, "Short description", &in.ShortDescription, parseText); err != nil {
		return err
	}
	if err := keepOr(a, "Target amount", &in.TargetAmount, parseAmount); err != nil {
		return err
	}
	if err := keepOr(a, "End date (YYYY-MM-DD)", &in.EndDate, parseDate); err != nil {
		return err
	}

	c, err := a.platform.UpdateCampaign(ctx, cid, in)
	if err != nil {
		a.println("Campaign not updated:", err)
		return err
	}
	a.printf("Updated campaign #%d %s\n", c.ID, c.Title)
	return nil
}

func (a *App) DeleteCampaign(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	cid, err := parseID(id)
	if err != nil {
		a.println(err)
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete campaign #%d? (yes/no)", cid), a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.println("Cancelled")
		return nil
	}

	if err := a.platform.DeleteCampaign(ctx, cid); err != nil {
		a.println("Campaign not deleted:", err)
		return err
	}
	a.printf("Deleted campaign #%d\n", cid)
	return nil
}

func (a *App) CampaignDonations(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	cid, err := parseID(id)
	if err != nil {
		a.println(err)
		return err
	}

	list, err := a.platform.ListCampaignDonations(ctx, cid)
	if err != nil {
		a.println("Could not load donations:", err)
		return err
	}
	if len(list) == 0 {
		a.println("No donations for this campaign")
		return nil
	}

	var total float64
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONOR\tAMOUNT\tSTATUS\tDATE")
	for _, d := range list {
		donor := d.DonorName
		if donor == "" {
			donor = fmt.Sprintf("#%d", d.DonorID)
		}
		if d.PaymentStatus == models.PaymentCompleted {
			total += d.Amount
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", d.ID, donor, d.Amount, d.PaymentStatus, d.CreatedAt.Format(dateLayout))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.printf("Completed total: %.2f\n", total)
	return nil
}

func promptParsed[T any](a *App, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return zero, err
	}
	v, err := parse(s)
	if err != nil {
		a.println(err)
		return zero, err
	}
	return v, nil
}

func parseText(s string) (string, error) { return s, nil }

func keepOr[T any](a *App, label string, dst *T, parse func(string) (T, error)) error {
	s, err := getSimpleText(a.reader, label+" (empty to keep)", a.out)
	if err != nil || s == "" {
		return err
	}
	v, err := parse(s)
	if err != nil {
		a.println(err)
		return err
	}
	*dst = v
	return nil
}
