package oauth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AmadeusTokenPath is the client-credentials endpoint relative to the API base URL
const AmadeusTokenPath = "/v1/security/oauth2/token"

// NewAmadeusClient returns an HTTP client that fetches and refreshes an
// Amadeus access token with the client-credentials grant. Credentials are
// sent in the form body as Amadeus requires.
func NewAmadeusClient(ctx context.Context, baseURL, apiKey, apiSecret string, timeout time.Duration) *http.Client {
	config := &clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     baseURL + AmadeusTokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	client := config.Client(ctx)
	client.Timeout = timeout
	return client
}
