package rest

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/auction/application"
	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/auth"
	"github.com/cristianortiz/auctionLedger/internal/shared/clock"
	"github.com/cristianortiz/auctionLedger/internal/shared/httpserver"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("rest-test-secret")

type testAPI struct {
	server *httpserver.Server
	clock  *clock.Manual
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := application.NewAuctionService(domain.NewAuctionStore(clk))
	server := httpserver.NewServer(secret)
	NewAuctionHandler(svc).Register(server.App())
	return &testAPI{server: server, clock: clk}
}

func tokenFor(t *testing.T, p identity.Principal) string {
	t.Helper()
	tok, err := auth.GenerateToken(p, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, target, body, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := a.server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (a *testAPI) create(t *testing.T, body string) domain.AuctionID {
	t.Helper()
	status, out := a.do(t, "POST", "/auctions", body, "")
	require.Equal(t, fiber.StatusCreated, status, string(out))
	var created struct {
		ID domain.AuctionID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(out, &created))
	return created.ID
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e.Error)
	return e.Code
}

func TestAuctionHandler_CreateAndList(t *testing.T) {
	api := newTestAPI(t)

	// "aGk=" is base64 for "hi"
	first := api.create(t, `{"title":"Painting","description":"oil","image":"aGk=","duration":60}`)
	second := api.create(t, `{"title":"Chair","duration":5}`)
	assert.Equal(t, domain.AuctionID(0), first)
	assert.Equal(t, domain.AuctionID(1), second)

	status, out := api.do(t, "GET", "/auctions", "", "")
	require.Equal(t, fiber.StatusOK, status)
	var list []domain.Overview
	require.NoError(t, json.Unmarshal(out, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Painting", list[0].Item.Title)
	assert.Equal(t, []byte("hi"), list[0].Item.Image)
	assert.Equal(t, domain.AuctionID(1), list[1].ID)
}

func TestAuctionHandler_CreateRejectsMalformedBody(t *testing.T) {
	api := newTestAPI(t)
	status, out := api.do(t, "POST", "/auctions", `{"title":`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, application.CodeBadRequest, errorCode(t, out))
}

func TestAuctionHandler_BidFlow(t *testing.T) {
	api := newTestAPI(t)
	id := api.create(t, `{"title":"Watch","duration":60}`)
	alice, bob := identity.New(), identity.New()

	status, out := api.do(t, "POST", "/auctions/0/bids", `{"price":10}`, tokenFor(t, alice))
	require.Equal(t, fiber.StatusCreated, status, string(out))
	var bid domain.Bid
	require.NoError(t, json.Unmarshal(out, &bid))
	assert.Equal(t, "10", bid.Price.String())
	assert.Equal(t, alice, bid.Originator)
	assert.Equal(t, uint64(60), bid.Time)

	api.clock.Advance(15 * time.Second)
	status, out = api.do(t, "POST", "/auctions/0/bids", `{"price":"11"}`, tokenFor(t, bob))
	require.Equal(t, fiber.StatusCreated, status, string(out))

	status, out = api.do(t, "GET", "/auctions/0", "", "")
	require.Equal(t, fiber.StatusOK, status)
	var details application.AuctionDetailsDTO
	require.NoError(t, json.Unmarshal(out, &details))
	assert.Equal(t, id, details.AuctionID)
	assert.Equal(t, "Watch", details.Item.Title)
	assert.Equal(t, uint64(45), details.RemainingTime)
	assert.False(t, details.Closed)
	require.Len(t, details.BidHistory, 2)
	assert.Equal(t, uint64(60), details.BidHistory[0].Time)
	assert.Equal(t, uint64(45), details.BidHistory[1].Time)
	require.NotNil(t, details.Leader)
	assert.Equal(t, bob, details.Leader.Originator)

	api.clock.Advance(45 * time.Second)
	status, out = api.do(t, "GET", "/auctions/0", "", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(out, &details))
	assert.True(t, details.Closed)
	assert.Equal(t, uint64(0), details.RemainingTime)
}

func TestAuctionHandler_BidErrors(t *testing.T) {
	api := newTestAPI(t)
	api.create(t, `{"title":"Lamp","duration":30}`)
	api.create(t, `{"title":"Stool","duration":1}`)
	leader := tokenFor(t, identity.New())
	status, _ := api.do(t, "POST", "/auctions/0/bids", `{"price":5}`, leader)
	require.Equal(t, fiber.StatusCreated, status)
	api.clock.Advance(2 * time.Second)

	tests := []struct {
		name   string
		target string
		body   string
		token  string
		status int
		code   string
	}{
		{"anonymous", "/auctions/0/bids", `{"price":9}`, "", fiber.StatusUnauthorized, application.CodeUnauthenticated},
		{"unknown auction", "/auctions/7/bids", `{"price":9}`, leader, fiber.StatusNotFound, application.CodeNotFound},
		{"bad id", "/auctions/x/bids", `{"price":9}`, leader, fiber.StatusBadRequest, application.CodeBadRequest},
		{"equal price", "/auctions/0/bids", `{"price":5}`, leader, fiber.StatusConflict, application.CodePriceTooLow},
		{"closed", "/auctions/1/bids", `{"price":9}`, leader, fiber.StatusConflict, application.CodeAuctionClosed},
		{"fractional", "/auctions/0/bids", `{"price":6.5}`, leader, fiber.StatusBadRequest, application.CodeBadRequest},
		{"negative", "/auctions/0/bids", `{"price":-6}`, leader, fiber.StatusBadRequest, application.CodeBadRequest},
		{"exponent", "/auctions/0/bids", `{"price":1e5000000}`, leader, fiber.StatusBadRequest, application.CodeBadRequest},
		{"missing price", "/auctions/0/bids", `{}`, leader, fiber.StatusBadRequest, application.CodeBadRequest},
		{"invalid price wins over anonymous", "/auctions/0/bids", `{"price":"abc"}`, "", fiber.StatusBadRequest, application.CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := api.do(t, "POST", tt.target, tt.body, tt.token)
			assert.Equal(t, tt.status, status, string(out))
			assert.Equal(t, tt.code, errorCode(t, out))
		})
	}

	// failed bids leave the history untouched
	status, out := api.do(t, "GET", "/auctions/0", "", "")
	require.Equal(t, fiber.StatusOK, status)
	var details application.AuctionDetailsDTO
	require.NoError(t, json.Unmarshal(out, &details))
	assert.Len(t, details.BidHistory, 1)
}

func TestAuctionHandler_DetailsNotFound(t *testing.T) {
	api := newTestAPI(t)
	status, out := api.do(t, "GET", "/auctions/3", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, application.CodeNotFound, errorCode(t, out))
}
