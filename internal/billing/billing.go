package billing

import (
	"fmt"
	"strings"

	"github.com/foodkart/food-order-backend/internal/order"
)

// TextBill renders a finalized order as a plain-text bill. It is a pure
// transform: nothing here reads or writes state.
func TextBill(ord order.Order) string {
	var b strings.Builder

	b.WriteString("===========================================\n")
	b.WriteString("              Order Bill                   \n")
	b.WriteString("===========================================\n\n")

	fmt.Fprintf(&b, "Order ID: %s\n", ord.OrderID)
	fmt.Fprintf(&b, "Order Date: %s\n", ord.CreatedAt.Format("02-01-2006 15:04:05"))
	if ord.PaymentMode != "" {
		fmt.Fprintf(&b, "Payment Mode: %s\n", ord.PaymentMode)
	}
	fmt.Fprintf(&b, "Status: %s\n\n", ord.Status)

	if bd := ord.Billing; bd != nil {
		b.WriteString("Billing Details:\n")
		if bd.FirstName != "" || bd.LastName != "" {
			fmt.Fprintf(&b, "Name: %s %s\n", bd.FirstName, bd.LastName)
		}
		if bd.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", bd.Email)
		}
		if bd.Address != "" {
			fmt.Fprintf(&b, "Address: %s\n", bd.Address)
		}
		if bd.Locality != "" {
			fmt.Fprintf(&b, "Locality: %s\n", bd.Locality)
		}
		if bd.Zip != "" {
			fmt.Fprintf(&b, "ZIP: %s\n", bd.Zip)
		}
		if bd.State != "" && bd.Country != "" {
			fmt.Fprintf(&b, "Location: %s, %s\n", bd.State, bd.Country)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%-4s %-24s %5s %12s %12s\n", "No.", "Item", "Qty", "Unit Price", "Total")
	b.WriteString(strings.Repeat("-", 62) + "\n")
	for i, line := range ord.Lines {
		fmt.Fprintf(&b, "%-4d %-24s %5d %12.2f %12.2f\n",
			i+1, truncate(line.Name, 24), line.Quantity, line.UnitPrice, line.Total)
	}
	b.WriteString(strings.Repeat("-", 62) + "\n\n")

	fmt.Fprintf(&b, "Subtotal:          %10.2f\n", ord.SubTotal)
	fmt.Fprintf(&b, "Tax (%.1f%%):        %10.2f\n", ord.TaxRate, ord.TaxAmount)
	fmt.Fprintf(&b, "Total:             %10.2f\n\n", ord.GrandTotal)

	b.WriteString("Thank you for your order!\n")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
