// Package google handles OAuth2 authentication against Google APIs for
// every connected account.
//
// Tokens are cached on disk per account under the user cache directory
// (e.g. ~/.cache/inboxpilot/<account>.token) and refreshed transparently
// through the oauth2 token source.
package google
