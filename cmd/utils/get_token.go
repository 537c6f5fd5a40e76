package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"flightdeal-service/internal/infrastructure/config"
	"flightdeal-service/internal/infrastructure/oauth"
	"flightdeal-service/pkg/logger"
)

const callbackAddr = "localhost:8090"

func main() {
	log := logger.NewLogger("info")

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg, err := config.LoadConfig(); err == nil {
		clientID, clientSecret = cfg.GoogleClientID, cfg.GoogleClientSecret
	}
	if clientID == "" || clientSecret == "" {
		log.Fatal("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	googleOAuth := oauth.NewGoogleOAuth(clientID, clientSecret, "", "http://"+callbackAddr+"/oauth2callback", log)

	// Create a random state
	state := "random-state"

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		// Check state parameter
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the authorization code for a token
		token, err := googleOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		tokenJSON, err := googleOAuth.TokenToJSON(token)
		if err == nil {
			fmt.Printf("\nToken:\n%s\n", tokenJSON)
		}
		fmt.Printf("\nGOOGLE_REFRESH_TOKEN=%s\n\n", token.RefreshToken)

		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	fmt.Printf("Open this URL in your browser:\n%s\n", googleOAuth.GenerateAuthURL(state))

	if err := http.ListenAndServe(callbackAddr, nil); err != nil {
		log.Fatal("Callback server failed", "error", err)
	}
}
