package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-wallet/internal/core/domain"
)

// TestConcurrentRequestResolution verifies that a request transitions exactly
// once even when many operators race on the same decision. Exactly one call
// wins; every loser observes the terminal status.
func TestConcurrentRequestResolution(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := uuid.New()
	userTok := app.userToken(t, userID)
	opTok := app.operatorToken(t, uuid.New())

	requestID := createRequest(t, app, userTok, "DEPOSIT", 50000, "")

	concurrency := 10
	var wg sync.WaitGroup
	var approved atomic.Int64
	var conflicts atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/requests/"+requestID+"/resolve", opTok, map[string]interface{}{
				"approved": true,
			})
			switch resp.StatusCode {
			case http.StatusOK:
				approved.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), approved.Load(), "exactly one resolution should win")
	assert.Equal(t, int64(concurrency-1), conflicts.Load(), "losers should see the terminal status")

	// The wallet was credited exactly once.
	resp, body := app.do(t, http.MethodGet, "/api/v1/wallet", userTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(50000), body["data"].(map[string]interface{})["balance"])
}

// TestConcurrentCompletionResolution verifies the seller is credited exactly
// once when operators race on the same completion decision.
func TestConcurrentCompletionResolution(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	sellerID := uuid.New()
	sellerTok := app.userToken(t, sellerID)
	opTok := app.operatorToken(t, uuid.New())

	order := &domain.Order{
		ID:          uuid.New(),
		SellerID:    sellerID,
		TotalAmount: 250000,
		Status:      domain.OrderStatusShipped,
	}
	app.orderRepo.seed(order)

	resp, _ := app.do(t, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/request-completion", sellerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	concurrency := 10
	var wg sync.WaitGroup
	var completed atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/orders/"+order.ID.String()+"/resolve-completion", opTok, map[string]interface{}{
				"approved": true,
			})
			if resp.StatusCode == http.StatusOK {
				completed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), completed.Load(), "exactly one resolution should win")

	resp, body := app.do(t, http.MethodGet, "/api/v1/wallet", sellerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(250000), body["data"].(map[string]interface{})["balance"],
		"the seller must be credited exactly once")
}

// TestConcurrentCreditsMaintainLedgerChain approves many deposits for the
// same wallet concurrently and checks the append-only audit chain: every
// entry's BalanceAfter equals the previous entry's BalanceAfter plus its
// amount, and the final balance matches the sum of the log.
func TestConcurrentCreditsMaintainLedgerChain(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := uuid.New()
	userTok := app.userToken(t, userID)
	opTok := app.operatorToken(t, uuid.New())

	count := 20
	amount := int64(10000)

	requestIDs := make([]string, count)
	for i := 0; i < count; i++ {
		requestIDs[i] = createRequest(t, app, userTok, "DEPOSIT", amount, "")
	}

	var wg sync.WaitGroup
	for _, id := range requestIDs {
		wg.Add(1)
		go func(requestID string) {
			defer wg.Done()
			resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/requests/"+requestID+"/resolve", opTok, map[string]interface{}{
				"approved": true,
			})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}(id)
	}
	wg.Wait()

	resp, body := app.do(t, http.MethodGet, "/api/v1/wallet", userTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(count)*float64(amount), data["balance"])

	walletID, err := uuid.Parse(data["id"].(string))
	require.NoError(t, err)

	entries := app.txRepo.allByWallet(walletID)
	require.Len(t, entries, count)

	var running int64
	for i, entry := range entries {
		running += entry.Amount
		assert.Equal(t, running, entry.BalanceAfter,
			fmt.Sprintf("entry %d breaks the balance chain", i))
	}

	sum, err := app.txRepo.SumByWallet(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(count)*amount, sum, "replaying the log must reproduce the balance")
}
