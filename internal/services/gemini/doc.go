// Package gemini transcribes audio through the Gemini generateContent REST
// API.
//
// Requests are rate limited client side and retried with exponential backoff.
// Authentication and malformed-request failures are returned immediately;
// everything else is retried until the attempt budget is spent, at which
// point the error carries services.ErrTransient.
package gemini
