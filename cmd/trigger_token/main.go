package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"propertyhub/listingsync/internal/auth"
	"propertyhub/listingsync/internal/config"
)

// Prints a bearer token for POST /sync/listings, signed with
// SYNC_TRIGGER_SECRET.
func main() {
	subject := flag.String("subject", "ops", "caller recorded in the sync logs")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.TriggerSecret == "" {
		log.Fatalf("SYNC_TRIGGER_SECRET is not set")
	}

	token, err := auth.SignTriggerToken(cfg.TriggerSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
}
