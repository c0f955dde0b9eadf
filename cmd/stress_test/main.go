package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/rl1809/invenedu/internal/adapter/handler"
)

const (
	initialStock  = 20
	totalRequests = 50
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	baseURL := getEnv("STRESS_BASE_URL", "http://localhost:8080")
	adminID := os.Getenv("STRESS_ADMIN_ID")
	userID := os.Getenv("STRESS_USER_ID")
	if adminID == "" || userID == "" {
		log.Fatal("STRESS_ADMIN_ID and STRESS_USER_ID must be set (run cmd/seed and use the printed ids)")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader(handler.HeaderUserID, adminID)

	// Create a fresh category and item for this run
	suffix := uuid.NewString()[:8]

	var category handler.CategoryResponse
	resp, err := client.R().
		SetBody(handler.CategoryRequest{Name: "Stress " + suffix}).
		SetResult(&category).
		Post("/api/v1/admin/categories")
	if err != nil || resp.StatusCode() != http.StatusCreated {
		log.Fatalf("failed to create category: %v %s", err, resp.String())
	}

	var item handler.ItemResponse
	resp, err = client.R().
		SetBody(handler.ItemRequest{
			Name:       "Stress item " + suffix,
			Quantity:   initialStock,
			CategoryID: category.ID,
		}).
		SetResult(&item).
		Post("/api/v1/admin/items")
	if err != nil || resp.StatusCode() != http.StatusCreated {
		log.Fatalf("failed to create item: %v %s", err, resp.String())
	}

	// Counters
	var successCount atomic.Int32
	var rejectedCount atomic.Int32
	var errorCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := client.R().
				SetHeader(handler.HeaderIdempotencyKey, uuid.NewString()).
				SetBody(handler.IssueHTTPRequest{ItemID: item.ID, UserID: userID, Quantity: 1}).
				Post("/api/v1/admin/issuances")
			switch {
			case err != nil:
				errorCount.Add(1)
			case resp.StatusCode() == http.StatusCreated:
				successCount.Add(1)
			case resp.StatusCode() == http.StatusConflict:
				rejectedCount.Add(1)
			default:
				errorCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	rejected := rejectedCount.Load()
	failed := errorCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Issued:           %d\n", success)
	fmt.Printf("Rejected:         %d\n", rejected)
	fmt.Printf("Errors:           %d\n", failed)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == initialStock && rejected == totalRequests-initialStock {
		fmt.Printf("PASS: Exactly %d issuances succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d issued/%d rejected, got %d/%d (errors %d)\n",
			initialStock, totalRequests-initialStock, success, rejected, failed)
	}

	// Verify final stock
	var final handler.ItemResponse
	resp, err = client.R().SetResult(&final).Get(fmt.Sprintf("/api/v1/items/%d", item.ID))
	if err != nil || resp.StatusCode() != http.StatusOK {
		log.Fatalf("failed to read final stock: %v %s", err, resp.String())
	}
	fmt.Printf("Final Stock:      %d\n", final.Quantity)

	if final.Quantity == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", final.Quantity)
	}
}
