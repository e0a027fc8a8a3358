package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/config"
	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
)

// Probe queries for the scopes the service needs.
const testCustomersQuery = `
query {
  customers(first: 1) {
    edges {
      node {
        id
      }
    }
  }
}
`

const testFilesQuery = `
query {
  files(first: 1) {
    edges {
      node {
        ... on MediaImage {
          id
        }
      }
    }
  }
}
`

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Create Shopify client
	client := shopify.NewClient(cfg.Shopify, logger)
	ctx := context.Background()

	fmt.Println("Checking API access...")

	fmt.Println("1. Testing shop access...")
	resp, err := client.Execute(ctx, shopify.ShopQuery, nil)
	if err != nil {
		fmt.Printf("   Failed: %v\n", err)
		fmt.Println("   -> Check SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN")
		os.Exit(1)
	}
	var shopResult struct {
		Shop struct {
			Name            string `json:"name"`
			MyshopifyDomain string `json:"myshopifyDomain"`
		} `json:"shop"`
	}
	json.Unmarshal(resp.Data, &shopResult)
	fmt.Printf("   OK: connected to %s (%s)\n", shopResult.Shop.Name, shopResult.Shop.MyshopifyDomain)

	fmt.Println("2. Testing 'read_customers' permission...")
	if _, err := client.Execute(ctx, testCustomersQuery, nil); err != nil {
		fmt.Printf("   Failed: %v\n", err)
		fmt.Println("   -> You need to add 'read_customers' scope to your app")
	} else {
		fmt.Println("   OK")
	}

	fmt.Println("3. Testing 'read_files' permission...")
	if _, err := client.Execute(ctx, testFilesQuery, nil); err != nil {
		fmt.Printf("   Failed: %v\n", err)
		fmt.Println("   -> You need to add 'read_files' scope to your app")
	} else {
		fmt.Println("   OK")
	}

	fmt.Println("\nRequired scopes for this service:")
	fmt.Println("   - read_products (wishlist enrichment lookups)")
	fmt.Println("   - read_customers / write_customers (profile + metafields)")
	fmt.Println("   - read_files / write_files (profile image uploads)")
}
