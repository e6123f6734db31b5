// Package cli provides the interactive charitydesk command-line client.
//
// It wires configuration, the SQLite session store, the identity and
// platform HTTP clients and the session manager, then runs a REPL. On start
// the stored session is verified; afterwards every command reads the
// session's current state.
//
// Commands:
//   - register, login, logout, refresh, passwd
//   - forgot, reset
//   - status, clear
//   - profile, editprofile
//   - campaigns, campaign <id>
//   - donate, donations
//   - newcampaign, editcampaign <id>, deletecampaign <id>, campaigndonations <id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
