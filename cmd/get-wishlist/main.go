package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/config"
	"github.com/adeemgetnoor/customer-profile-manager/internal/service"
)

// One-shot tool: print a customer's wishlist as stored (or expanded) JSON.
//
//	go run ./cmd/get-wishlist -customer 1234567890 -expand
func main() {
	customerID := flag.String("customer", "", "numeric customer id (required)")
	expand := flag.Bool("expand", false, "enrich entries missing title/handle via product lookup")
	flag.Parse()

	if *customerID == "" {
		fmt.Fprintln(os.Stderr, "usage: get-wishlist -customer <id> [-expand]")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	svcs := service.NewServices(cfg.Shopify, logger)

	wishlist, err := svcs.Wishlist.Get(context.Background(), *customerID, *expand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch wishlist: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(wishlist, "", "  ")
	fmt.Println(string(out))
}
