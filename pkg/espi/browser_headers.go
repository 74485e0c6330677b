package espi

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains Accept-Language values a Polish reader would send
var acceptLanguages = []string{
	"pl-PL,pl;q=0.9",
	"pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7",
	"pl,en-US;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,pl;q=0.8",
	"en-GB,en;q=0.9,pl;q=0.8",
}

// addBrowserHeaders makes the request look like a regular page view, the site rejects bare clients
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}
