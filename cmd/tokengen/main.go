package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/auth"
	"github.com/cristianortiz/auctionLedger/internal/shared/config"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
)

// tokengen prints a bearer token signed with JWT_SECRET, for local testing
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	var (
		principal = flag.String("principal", "", "Principal UUID, a random one when empty")
		ttl       = flag.Duration("ttl", cfg.TokenTTL, "Token lifetime")
		secret    = flag.String("secret", cfg.JWTSecret, "HMAC secret, defaults to JWT_SECRET")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "A secret is required: set JWT_SECRET or pass -secret")
		os.Exit(1)
	}

	p := identity.New()
	if *principal != "" {
		p, err = identity.Parse(*principal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid principal: %v\n", err)
			os.Exit(1)
		}
	}

	token, err := auth.GenerateToken(p, []byte(*secret), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(2)
	}

	fmt.Fprintf(os.Stderr, "principal %s, expires %s\n", p, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
}
