package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/charitydesk/internal/client/session"
)

// Status prints the session snapshot and which session keys are on disk.
func (a *App) Status(ctx context.Context) error {
	s := a.session.State()

	a.printf("phase:    %s\n", s.Phase)
	if s.IsAuthenticated {
		a.printf("user:     %s <%s> role=%s id=%s\n", s.User.Name, s.User.Email, s.User.Role, s.User.ID)
	}
	if s.IsLoading {
		a.println("loading:  yes")
	}
	if s.Err != "" {
		a.printf("error:    %s\n", s.Err)
	}
	if a.store == nil {
		return nil
	}

	stored, err := a.store.List(ctx)
	if err != nil {
		a.printf("stored:   unavailable (%v)\n", err)
		return err
	}
	var present []string
	k := session.NamespaceKeys(a.namespace())
	for _, key := range []string{k.Token, k.RefreshToken, k.User} {
		if _, ok := stored[key]; ok {
			present = append(present, key)
		}
	}
	if len(present) == 0 {
		a.println("stored:   none")
	} else {
		a.printf("stored:   %s\n", strings.Join(present, ", "))
	}
	return nil
}

func (a *App) ClearError(ctx context.Context) error {
	a.session.ClearError()
	return nil
}

func (a *App) namespace() string {
	if a.config == nil {
		return ""
	}
	return a.config.Namespace
}
