package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Status(ctx context.Context) error
	ClearError(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Campaigns(ctx context.Context) error
	Campaign(ctx context.Context, id string) error
	Donate(ctx context.Context) error
	Donations(ctx context.Context) error
	NewCampaign(ctx context.Context) error
	EditCampaign(ctx context.Context, id string) error
	DeleteCampaign(ctx context.Context, id string) error
	CampaignDonations(ctx context.Context, id string) error
}

// runREPL reads commands line by line from reader and dispatches them to a,
// until EOF or "exit"/"quit". Handlers report their own failures, so
// returned errors are ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("charity %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, profile, editprofile, campaigns, campaign <id>, donate, donations, refresh, passwd, clear, logout, exit")
				printlnFn("Back-office: newcampaign, editcampaign <id>, deletecampaign <id>, campaigndonations <id>")
			} else {
				printlnFn("Available commands: register, login, forgot, reset, status, campaigns, campaign <id>, clear, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "status":
			_ = a.Status(ctx)

		case "clear":
			_ = a.ClearError(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "campaigns":
			_ = a.Campaigns(ctx)

		case "campaign":
			if len(args) == 0 {
				printlnFn("Usage: campaign <id>")
				continue
			}
			_ = a.Campaign(ctx, args[0])

		case "donate":
			_ = a.Donate(ctx)

		case "donations":
			_ = a.Donations(ctx)

		case "newcampaign":
			_ = a.NewCampaign(ctx)

		case "editcampaign", "deletecampaign", "campaigndonations":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "editcampaign":
				_ = a.EditCampaign(ctx, args[0])
			case "deletecampaign":
				_ = a.DeleteCampaign(ctx, args[0])
			default:
				_ = a.CampaignDonations(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
