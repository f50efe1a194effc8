package rest

import (
	"strconv"

	"github.com/cristianortiz/auctionLedger/internal/auction/application"
	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionHandler exposes the auction use cases over HTTP
type AuctionHandler struct {
	auctionService application.AuctionService
}

func NewAuctionHandler(auctionService application.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

// Register mounts the auction routes, the caller is resolved by httpserver.Authenticate
func (h *AuctionHandler) Register(router fiber.Router) {
	router.Post("/auctions", h.createAuction)
	router.Get("/auctions", h.listOverviews)
	router.Get("/auctions/:id", h.getDetails)
	router.Post("/auctions/:id/bids", h.makeBid)
}

type createAuctionResponse struct {
	ID domain.AuctionID `json:"id"`
}

type makeBidRequest struct {
	Price *domain.Price `json:"price"`
}

func (h *AuctionHandler) createAuction(c *fiber.Ctx) error {
	var req application.CreateAuctionDTO
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid auction body: "+err.Error())
	}
	id := h.auctionService.CreateAuction(c.UserContext(), req)
	return c.Status(fiber.StatusCreated).JSON(createAuctionResponse{ID: id})
}

func (h *AuctionHandler) listOverviews(c *fiber.Ctx) error {
	return c.JSON(h.auctionService.ListOverviews(c.UserContext()))
}

func (h *AuctionHandler) getDetails(c *fiber.Ctx) error {
	id, err := auctionID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	details, err := h.auctionService.GetDetails(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(details)
}

func (h *AuctionHandler) makeBid(c *fiber.Ctx) error {
	id, err := auctionID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req makeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid bid body: "+err.Error())
	}
	if req.Price == nil {
		return badRequest(c, "price is required")
	}

	bid, err := h.auctionService.MakeBid(c.UserContext(), application.MakeBidDTO{AuctionID: id, Price: *req.Price})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bid)
}

func auctionID(c *fiber.Ctx) (domain.AuctionID, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid auction id "+strconv.Quote(c.Params("id")))
	}
	return domain.AuctionID(id), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "code": application.CodeBadRequest})
}

// writeError maps use case errors to status codes
func writeError(c *fiber.Ctx, err error) error {
	code := application.ErrorCode(err)
	status := fiber.StatusInternalServerError
	switch code {
	case application.CodeNotFound:
		status = fiber.StatusNotFound
	case application.CodeUnauthenticated:
		status = fiber.StatusUnauthorized
	case application.CodePriceTooLow, application.CodeAuctionClosed:
		status = fiber.StatusConflict
	case application.CodeBadRequest:
		status = fiber.StatusBadRequest
	default:
		log.Error("Unexpected auction error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "code": code})
}
