package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirdashti/darchin-backend/pkg/enums"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

// paperWidth is the character width of a 58mm thermal printer.
const paperWidth = 32

// RenderInput carries everything a receipt shows. It is a snapshot: the
// rendered text must stay reproducible from the archive alone.
type RenderInput struct {
	Type          enums.ReceiptType
	ReceiptNumber int64
	IssuedAt      time.Time
	Items         types.OrderItems
	TotalPrice    int
	// ShippingPrice appears on delivery receipts only; the kitchen does not
	// care about the courier fee.
	ShippingPrice int
	CustomerName  string
	CustomerPhone string
	Address       string
}

// Render produces the fixed-width plain text for a receipt.
func Render(input RenderInput) string {
	var b strings.Builder
	rule := strings.Repeat("=", paperWidth)
	thinRule := strings.Repeat("-", paperWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center("DARCHIN") + "\n")
	switch input.Type {
	case enums.ReceiptTypeKitchen:
		b.WriteString(center("KITCHEN RECEIPT") + "\n")
	case enums.ReceiptTypeDelivery:
		b.WriteString(center("DELIVERY RECEIPT") + "\n")
	default:
		b.WriteString(center(strings.ToUpper(input.Type.String())) + "\n")
	}
	b.WriteString(rule + "\n")

	b.WriteString(fmt.Sprintf("Receipt #%d\n", input.ReceiptNumber))
	b.WriteString(input.IssuedAt.Format("2006-01-02 15:04") + "\n")
	b.WriteString(thinRule + "\n")

	for _, item := range input.Items {
		left := fmt.Sprintf("%d x %s", item.Quantity, item.Name)
		right := fmt.Sprintf("%d", item.Subtotal())
		b.WriteString(row(left, right) + "\n")
	}

	b.WriteString(thinRule + "\n")
	if input.Type == enums.ReceiptTypeDelivery {
		b.WriteString(row("SUBTOTAL", fmt.Sprintf("%d", input.TotalPrice)) + "\n")
		b.WriteString(row("SHIPPING", fmt.Sprintf("%d", input.ShippingPrice)) + "\n")
		b.WriteString(row("TOTAL", fmt.Sprintf("%d", input.TotalPrice+input.ShippingPrice)) + "\n")
	} else {
		b.WriteString(row("TOTAL", fmt.Sprintf("%d", input.TotalPrice)) + "\n")
	}

	if input.Type == enums.ReceiptTypeDelivery {
		b.WriteString(thinRule + "\n")
		if input.CustomerName != "" {
			b.WriteString(wrap("Name: "+input.CustomerName) + "\n")
		}
		if input.CustomerPhone != "" {
			b.WriteString(wrap("Phone: "+input.CustomerPhone) + "\n")
		}
		if input.Address != "" {
			b.WriteString(wrap("Address: "+input.Address) + "\n")
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func center(text string) string {
	if len(text) >= paperWidth {
		return text
	}
	pad := (paperWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

// row left-aligns the label and right-aligns the amount. Long labels are
// truncated rather than wrapped so amounts always line up.
func row(left, right string) string {
	space := paperWidth - len(right) - 1
	if len(left) > space {
		left = left[:space]
	}
	return left + strings.Repeat(" ", paperWidth-len(left)-len(right)) + right
}

func wrap(text string) string {
	if len(text) <= paperWidth {
		return text
	}
	var lines []string
	for len(text) > paperWidth {
		lines = append(lines, text[:paperWidth])
		text = text[paperWidth:]
	}
	lines = append(lines, text)
	return strings.Join(lines, "\n")
}
