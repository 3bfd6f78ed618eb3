// Package cli implements the natorvoice command-line client.
//
// Commands map one-to-one onto the HTTP API: account management (register,
// login, logout, me), voices, say, clips and usage. The trim command and
// say --trim run the audio post-processor locally; when a clip cannot be
// decoded the untrimmed audio is kept and the user is told so.
//
// The session token is stored in the user config directory and sent as a
// bearer token on every request.
package cli
