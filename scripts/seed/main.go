// Package main implements a standalone seed script that populates a running
// SmartOrder stack with realistic test data over HTTP: roles, users, a
// product catalog (which seeds inventory as a side effect), orders, and a
// handful of fulfilled orders so the line item ledger is not empty.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type seedConfig struct {
	userURL        string
	roleURL        string
	productURL     string
	orderURL       string
	fulfillmentURL string
	productCount   int
	orderCount     int
}

func loadConfig() seedConfig {
	cfg := seedConfig{
		userURL:        getEnv("USER_SERVICE_URL", "http://localhost:8001"),
		roleURL:        getEnv("ROLE_SERVICE_URL", "http://localhost:8002"),
		productURL:     getEnv("PRODUCT_SERVICE_URL", "http://localhost:8003"),
		orderURL:       getEnv("ORDER_SERVICE_URL", "http://localhost:8005"),
		fulfillmentURL: getEnv("FULFILLMENT_SERVICE_URL", "http://localhost:8006"),
	}
	flag.IntVar(&cfg.productCount, "products", 50, "number of products to create")
	flag.IntVar(&cfg.orderCount, "orders", 20, "number of orders to create")
	flag.Parse()
	return cfg
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

func httpPost(url string, body any) (map[string]any, error) {
	return doJSON(http.MethodPost, url, body)
}

func doJSON(method, url string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, string(respBody))
	}

	var parsed map[string]any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
	}
	return parsed, nil
}

func dataID(resp map[string]any) int64 {
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return 0
	}
	id, ok := data["id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}

// --------------------------------------------------------------------------
// Data pools
// --------------------------------------------------------------------------

var roleNames = []struct {
	name        string
	description string
}{
	{"ADMIN", "full platform administration"},
	{"WAREHOUSE_MANAGER", "stock and fulfillment operations"},
	{"STORE_CLERK", "in-store order entry"},
	{"CUSTOMER", "regular storefront customer"},
}

var firstNames = []string{
	"Elena", "Marcos", "Lucia", "Javier", "Carmen", "Pablo", "Sofia",
	"Diego", "Marta", "Alvaro", "Ines", "Raul",
}

var lastNames = []string{
	"Garcia", "Martinez", "Lopez", "Sanchez", "Fernandez", "Jimenez",
	"Ruiz", "Torres", "Navarro", "Molina",
}

var productAdjectives = []string{
	"Compact", "Wireless", "Ergonomic", "Portable", "Industrial",
	"Premium", "Basic", "Smart", "Rugged", "Slim",
}

var productNouns = []string{
	"Keyboard", "Monitor", "Scanner", "Printer", "Headset", "Dock",
	"Router", "Tablet", "Camera", "Speaker",
}

var stores = []string{
	"madrid-centro", "barcelona-diagonal", "valencia-puerto",
	"sevilla-nervion", "bilbao-abando",
}

var paymentMethods = []string{"credit_card", "debit_card", "cash", "wallet"}

// --------------------------------------------------------------------------
// Seeders
// --------------------------------------------------------------------------

func seedRoles(cfg seedConfig) {
	for _, r := range roleNames {
		_, err := httpPost(cfg.roleURL+"/api/roles", map[string]any{
			"name":        r.name,
			"description": r.description,
		})
		if err != nil {
			// Roles are unique by name; reruns hit 409 and that is fine.
			log.Printf("role %s: %v", r.name, err)
			continue
		}
		log.Printf("role %s created", r.name)
	}
}

func seedUsers(cfg seedConfig, rng *rand.Rand) []int64 {
	var ids []int64
	for i := 0; i < 12; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		docID := int64(40000000 + rng.Intn(9000000))
		_, err := httpPost(cfg.userURL+"/api/users", map[string]any{
			"id":        docID,
			"name":      first,
			"user_name": fmt.Sprintf("%s.%s.%d", first, last, docID),
			"last_name": last,
			"email":     fmt.Sprintf("%s.%s.%d@example.com", first, last, docID),
			"phone":     fmt.Sprintf("+346%08d", rng.Intn(100000000)),
		})
		if err != nil {
			log.Printf("user %d: %v", docID, err)
			continue
		}
		ids = append(ids, docID)
	}
	log.Printf("%d users created", len(ids))
	return ids
}

func seedProducts(cfg seedConfig, rng *rand.Rand) []string {
	var codes []string
	for i := 0; i < cfg.productCount; i++ {
		adj := productAdjectives[rng.Intn(len(productAdjectives))]
		noun := productNouns[rng.Intn(len(productNouns))]
		code := fmt.Sprintf("%s-%s-%04d", adj, noun, i)
		_, err := httpPost(cfg.productURL+"/api/products", map[string]any{
			"name":         fmt.Sprintf("%s %s", adj, noun),
			"product_code": code,
			"description":  fmt.Sprintf("%s %s for seed data", adj, noun),
			"stock":        50 + rng.Intn(200),
			"price":        int64(500 + rng.Intn(200000)),
		})
		if err != nil {
			log.Printf("product %s: %v", code, err)
			continue
		}
		codes = append(codes, code)
	}
	log.Printf("%d products created, inventory seeded alongside", len(codes))
	return codes
}

func seedOrders(cfg seedConfig, rng *rand.Rand, userIDs []int64) []int64 {
	if len(userIDs) == 0 {
		log.Print("no users available, skipping orders")
		return nil
	}
	var ids []int64
	for i := 0; i < cfg.orderCount; i++ {
		orderDate := time.Now().AddDate(0, 0, -rng.Intn(30))
		resp, err := httpPost(cfg.orderURL+"/api/orders", map[string]any{
			"user_id":        userIDs[rng.Intn(len(userIDs))],
			"order_date":     orderDate.Format(time.RFC3339),
			"store":          stores[rng.Intn(len(stores))],
			"total_price":    int64(1000 + rng.Intn(100000)),
			"payment_method": paymentMethods[rng.Intn(len(paymentMethods))],
		})
		if err != nil {
			log.Printf("order %d: %v", i, err)
			continue
		}
		if id := dataID(resp); id > 0 {
			ids = append(ids, id)
		}
	}
	log.Printf("%d orders created", len(ids))
	return ids
}

func seedFulfillments(cfg seedConfig, rng *rand.Rand, orderIDs []int64, codes []string) {
	if len(codes) == 0 {
		log.Print("no products available, skipping fulfillments")
		return
	}
	fulfilled := 0
	for _, orderID := range orderIDs {
		if rng.Intn(3) != 0 {
			continue
		}
		items := make([]map[string]any, 0, 3)
		for n := 1 + rng.Intn(3); n > 0; n-- {
			items = append(items, map[string]any{
				"product_code": codes[rng.Intn(len(codes))],
				"quantity":     1 + rng.Intn(4),
			})
		}
		url := fmt.Sprintf("%s/api/fulfillment/orders/%d", cfg.fulfillmentURL, orderID)
		if _, err := httpPost(url, map[string]any{"items": items}); err != nil {
			log.Printf("fulfillment for order %d: %v", orderID, err)
			continue
		}
		fulfilled++
	}
	log.Printf("%d orders fulfilled", fulfilled)
}

func main() {
	cfg := loadConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Print("seeding SmartOrder stack")
	seedRoles(cfg)
	userIDs := seedUsers(cfg, rng)
	codes := seedProducts(cfg, rng)
	orderIDs := seedOrders(cfg, rng, userIDs)
	seedFulfillments(cfg, rng, orderIDs, codes)
	log.Print("seed complete")
}
