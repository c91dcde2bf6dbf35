package handler

import (
	"context"
	"net/http"

	"github.com/agoramall/backend/internal/application/commerce"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService  *commerce.OrderService
	exportService *commerce.ExportService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *commerce.OrderService, exportService *commerce.ExportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		exportService: exportService,
	}
}

// CheckoutItemRequest is one requested line item
type CheckoutItemRequest struct {
	ProductName string          `json:"product_name" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
}

// ShippingRequest carries the delivery destination
type ShippingRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Memo    string `json:"memo"`
}

// CheckoutRequest is the order creation request body
type CheckoutRequest struct {
	PaymentMethod string                `json:"payment_method" binding:"required"`
	Shipping      ShippingRequest       `json:"shipping" binding:"required"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CancelRequest carries the cancellation reason
type CancelRequest struct {
	Reason string `json:"reason"`
}

// RefundRequest carries the refund reason
type RefundRequest struct {
	Reason string `json:"reason"`
}

// RecordPaymentRequest is the payment settlement request body
type RecordPaymentRequest struct {
	TransactionID string          `json:"transaction_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
}

// ListOrdersRequest adds order filters to the common list parameters
type ListOrdersRequest struct {
	dto.ListRequest
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	PaymentStatus string `form:"payment_status"`
}

func (h *OrderHandler) actor(c *gin.Context) (commerce.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return commerce.Actor{}, false
	}
	return commerce.Actor{UserID: userID, Staff: isStaff(c)}, true
}

// Checkout godoc
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CheckoutRequest true "Order data"
// @Success      201 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      400 {object} dto.Response
// @Router       /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]commerce.CheckoutItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = commerce.CheckoutItemInput{
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	order, err := h.orderService.Checkout(c.Request.Context(), commerce.CheckoutInput{
		OwnerID:       actor.UserID,
		PaymentMethod: req.PaymentMethod,
		Shipping: commerce.ShippingInput{
			Name:    req.Shipping.Name,
			Phone:   req.Shipping.Phone,
			Address: req.Shipping.Address,
			Memo:    req.Shipping.Memo,
		},
		Items: items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders godoc
// @Summary      List orders
// @Description  Owners see their own orders; staff see all
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Param        payment_method query string false "Payment method filter"
// @Param        search query string false "Search over order number and shipping name"
// @Success      200 {object} dto.Response{data=[]commerce.OrderInfo}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.PaymentMethod != "" {
		filter.Filters["payment_method"] = req.PaymentMethod
	}
	if req.PaymentStatus != "" {
		filter.Filters["payment_status"] = req.PaymentStatus
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), commerce.ListOrdersInput{
		Actor:  actor,
		Filter: filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateShipping godoc
// @Summary      Update shipping on a pending order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body ShippingRequest true "New destination"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/shipping [put]
func (h *OrderHandler) UpdateShipping(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateShipping(c.Request.Context(), commerce.UpdateShippingInput{
		OrderID: id,
		Actor:   actor,
		Shipping: commerce.ShippingInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Memo:    req.Memo,
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkProcessing godoc
// @Summary      Move an order to processing (staff)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/processing [post]
func (h *OrderHandler) MarkProcessing(c *gin.Context) {
	h.transition(c, h.orderService.MarkProcessing)
}

// Complete godoc
// @Summary      Complete a processing order (staff)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderService.Complete)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Owners cancel pending or processing orders; staff any
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body CancelRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body")
			return
		}
	}

	order, err := h.orderService.Cancel(c.Request.Context(), commerce.CancelOrderInput{
		OrderID: id,
		Actor:   actor,
		Reason:  req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Refund godoc
// @Summary      Refund a completed order (staff)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body RefundRequest false "Refund reason"
// @Success      200 {object} dto.Response{data=commerce.OrderInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req RefundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body")
			return
		}
	}

	order, err := h.orderService.Refund(c.Request.Context(), commerce.RefundOrderInput{
		OrderID: id,
		Actor:   actor,
		Reason:  req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// DeleteOrder godoc
// @Summary      Delete an order (staff)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListStatusLogs godoc
// @Summary      List the audit trail of one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=[]commerce.StatusLogInfo}
// @Router       /orders/{id}/logs [get]
func (h *OrderHandler) ListStatusLogs(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	logs, err := h.orderService.ListStatusLogs(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}

// ListOwnStatusLogs godoc
// @Summary      List audit rows across own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]commerce.StatusLogInfo}
// @Router       /orders/logs [get]
func (h *OrderHandler) ListOwnStatusLogs(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListOwnStatusLogs(c.Request.Context(), commerce.ListStatusLogsInput{
		Actor:  actor,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListAllStatusLogs godoc
// @Summary      List audit rows across all orders (staff)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]commerce.StatusLogInfo}
// @Failure      403 {object} dto.Response
// @Router       /orders/logs/all [get]
func (h *OrderHandler) ListAllStatusLogs(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListAllStatusLogs(c.Request.Context(), commerce.ListStatusLogsInput{
		Actor:  actor,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RecordPayment godoc
// @Summary      Record a settled payment
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body RecordPaymentRequest true "Payment data"
// @Success      201 {object} dto.Response{data=commerce.PaymentInfo}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/payments [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.orderService.RecordPayment(c.Request.Context(), commerce.RecordPaymentInput{
		OrderID:       id,
		Actor:         actor,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Method:        req.Method,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// ListPayments godoc
// @Summary      List payments recorded against an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=[]commerce.PaymentInfo}
// @Router       /orders/{id}/payments [get]
func (h *OrderHandler) ListPayments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	payments, err := h.orderService.ListPayments(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// ExportCSV godoc
// @Summary      Export orders as CSV (staff)
// @Tags         orders
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {string} string "CSV content"
// @Failure      403 {object} dto.Response
// @Router       /orders/export [get]
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	data, err := h.exportService.ExportCSV(c.Request.Context(), commerce.ExportCSVInput{
		Actor:  actor,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportOrderSheet godoc
// @Summary      Export a printable order sheet PDF
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {string} string "PDF content"
// @Failure      404 {object} dto.Response
// @Router       /orders/{id}/sheet [get]
func (h *OrderHandler) ExportOrderSheet(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	data, err := h.exportService.ExportOrderSheet(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="order-sheet.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// transition applies a single-argument status transition
func (h *OrderHandler) transition(c *gin.Context, apply func(ctx context.Context, orderID uuid.UUID, actor commerce.Actor) (*commerce.OrderInfo, error)) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := apply(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
