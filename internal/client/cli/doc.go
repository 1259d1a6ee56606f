// Package cli provides the gophreveal command-line client.
//
// Each invocation runs one command against the server: submitting records,
// requesting decryptions, reading revealed records, metadata and encrypted
// counters, and following the event feed. Decryption requests are recorded
// in a local SQLite journal so they can be listed and cancelled later.
//
// Commands that change reveal state need a caller token. When none is
// configured the user is prompted for one. The token command mints tokens
// for operators holding the server's signing secret.
package cli
