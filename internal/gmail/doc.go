// Package gmail is the message source and label/draft actuator for Gmail
// accounts.
//
// The client normalizes raw Gmail API messages into the internal mail
// model: headers are parsed, the plain-text body is extracted from the
// MIME tree and truncated to the configured budget, and attachment
// presence is detected. Label application is keyed by name with a
// get-or-create cache so the agent's label taxonomy is created lazily on
// first use.
package gmail
