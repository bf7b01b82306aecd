package api

import (
	"bytes"
	"net/http"

	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

type placeOrderResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
	ID      string `json:"id"`
}

func (h *Handler) placeOrder(c router.Context) error {
	var in commerce.OrderInput
	if err := decodeStrict(c, &in); err != nil {
		return h.fail(c, err)
	}
	o, err := h.repos.Orders.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, placeOrderResponse{
		Message: "Order placed successfully",
		OrderID: o.OrderID,
		ID:      o.ID.Hex(),
	})
}

func (h *Handler) listOrders(c router.Context) error {
	orders, err := h.repos.Orders.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, orders)
}

func (h *Handler) getOrder(c router.Context) error {
	o, err := h.repos.Orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, o)
}

func (h *Handler) updateOrder(c router.Context) error {
	var in commerce.OrderInput
	if err := decodeStrict(c, &in); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Orders.Update(c.Request().Context(), c.Param("id"), in); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Order updated successfully"))
}

func (h *Handler) deleteOrder(c router.Context) error {
	if err := h.repos.Orders.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Order deleted successfully"))
}

// exportOrders buffers the CSV so a failure can still be reported as JSON.
func (h *Handler) exportOrders(c router.Context) error {
	var buf bytes.Buffer
	if err := h.repos.Orders.Export(c.Request().Context(), &buf); err != nil {
		return h.fail(c, err)
	}

	w := c.Response()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=orders.csv")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}
