// Logs a CIBN member into a running server and prints the resulting
// session, exercising the full client path: API client, session
// manager and local storage bootstrap.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cibn-digital-library/internal/apiclient"
	"cibn-digital-library/internal/session"
	"cibn-digital-library/internal/storage"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "server base URL")
	memberID := flag.String("member-id", "", "member id")
	password := flag.String("password", "", "member password")
	stateDir := flag.String("state-dir", "./.library-state", "local session state directory")
	flag.Parse()

	if *memberID == "" || *password == "" {
		log.Fatal("member-id and password are required")
	}

	store, err := storage.NewFileStore(*stateDir, 0)
	if err != nil {
		log.Fatalf("Failed to open state directory: %v", err)
	}

	client := apiclient.New(*baseURL)
	manager := session.NewManager(client, store)
	client.OnUnauthorized(manager.HandleUnauthorized)

	ctx := context.Background()

	// Try the persisted session first; fall back to a fresh login.
	manager.Bootstrap(ctx)
	if !manager.IsAuthenticated() {
		if err := manager.CIBNLogin(ctx, *memberID, *password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	user := manager.User()
	fmt.Printf("Authenticated as %s (%s)\n", user.FullName, user.ID)
	fmt.Printf("Role:  %s\n", user.Role)
	fmt.Printf("Token: %s\n", manager.Token())
}
