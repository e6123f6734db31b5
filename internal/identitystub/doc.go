// Package identitystub is an in-memory identity server for local
// development and end-to-end tests of the charitydesk client.
//
// It serves the identity endpoint contract (login, logout, refresh, verify,
// register, change-password, forgot-password, reset-password) plus the
// profile endpoints the client edits. Access tokens are HS256 JWTs; refresh
// and reset tokens are random hex strings that are single use. Refresh
// tokens are revoked on logout and on any password change. Reset tokens are
// written to the log in place of an email. Successful bodies use the platform's
// {"data": …, "meta": …} envelope and failures carry {"message": …}.
//
// Nothing is persisted; restarting the server forgets every account.
package identitystub
