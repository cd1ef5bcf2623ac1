package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"exam-supervision/proctorate/internal/middleware"
)

// Mints a service token for the sync API. The secret comes from the same
// SERVICE_AUTH_SECRET the server reads.
func main() {
	subject := flag.String("subject", "operator", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("SERVICE_AUTH_SECRET")
	if secret == "" {
		log.Fatal("SERVICE_AUTH_SECRET is not set")
	}

	token, err := middleware.IssueServiceToken(secret, *subject, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
}
