// Package fetch provides the rate-limited HTTP client the crawler pulls
// pages through.
//
// The source wiki sits behind bot-detection, so the client is deliberately
// slow: one request at a time, a minimum delay plus random jitter between
// requests, and a browser-like User-Agent with a cookie jar so the
// interstitial validation cookie survives the session. Transient failures
// (network errors, 429, 5xx) are retried with backoff; permanent failures
// (other 4xx) are surfaced immediately so the caller can skip the page.
package fetch
