package session

import (
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
)

type Phase int

const (
	PhaseBootstrapping Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// State is an immutable snapshot of a Manager.
type State struct {
	User            *models.User
	AccessToken     string
	IsAuthenticated bool
	IsLoading       bool
	// Err is the last failure reason, empty when none.
	Err       string
	Phase     Phase
	Version   uint64
	ChangedAt time.Time
}

// Keys names the three storage entries backing a session.
type Keys struct {
	Token        string
	RefreshToken string
	User         string
}

const DefaultNamespace = "charity_admin"

// NamespaceKeys derives the storage keys for ns, e.g. "charity_admin_token".
func NamespaceKeys(ns string) Keys {
	if ns == "" {
		ns = DefaultNamespace
	}
	return Keys{
		Token:        ns + "_token",
		RefreshToken: ns + "_refresh_token",
		User:         ns + "_user",
	}
}
