package cli

import (
	"context"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	u, err := a.platform.Me(ctx)
	if err != nil {
		a.println("Could not load profile:", err)
		return err
	}
	a.printf("%s <%s>\nrole: %s\n", u.Name, u.Email, u.Role)
	if u.Avatar != "" {
		a.printf("avatar: %s\n", u.Avatar)
	}
	return nil
}

// EditProfile updates name and avatar; empty answers keep current values.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	name, err := getSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	avatar, err := getSimpleText(a.reader, "New avatar URL (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name == "" && avatar == "" {
		a.println("Nothing to change")
		return nil
	}

	u, err := a.platform.UpdateMe(ctx, models.ProfileUpdate{Name: name, Avatar: avatar})
	if err != nil {
		a.println("Profile not updated:", err)
		return err
	}
	a.println("Profile updated:", u.Name)
	return nil
}
