// Package notify composes and delivers customer-facing quotation
// messages over email and WhatsApp deep links.
package notify

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/cotizador-app/cotizador/internal/quotations"
)

// Message is a rendered, channel-agnostic quotation notification.
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// QuotationLink builds the public deep link a guest opens to view the
// quotation. The token is the whole credential.
func QuotationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/quotation/" + url.PathEscape(token)
}

// ComposeQuotationMessage renders the delivery message for a quotation.
// The reply block only appears once staff have responded.
func ComposeQuotationMessage(q *quotations.Quotation, baseURL string) Message {
	link := QuotationLink(baseURL, q.Token)
	subject := fmt.Sprintf("Cotización %s", q.Folio)

	var text strings.Builder
	fmt.Fprintf(&text, "Cotización %s\n\n", q.Folio)
	fmt.Fprintf(&text, "Total: $%s\n", q.Total.StringFixed(2))
	if q.Reply != nil {
		fmt.Fprintf(&text, "\nRespuesta: %s\n", q.Reply.ResponseSummary)
		if q.Reply.DiscountAmount.IsPositive() {
			fmt.Fprintf(&text, "Descuento: $%s\n", q.Reply.DiscountAmount.StringFixed(2))
		}
		fmt.Fprintf(&text, "Total final: $%s\n", q.Reply.FinalTotal.StringFixed(2))
	}
	fmt.Fprintf(&text, "\nConsulte su cotización en: %s\n", link)

	var htmlBody strings.Builder
	fmt.Fprintf(&htmlBody, "<h2>Cotización %s</h2>", html.EscapeString(q.Folio))
	fmt.Fprintf(&htmlBody, "<p>Total: <strong>$%s</strong></p>", q.Total.StringFixed(2))
	if q.Reply != nil {
		fmt.Fprintf(&htmlBody, "<p>Respuesta: %s</p>", html.EscapeString(q.Reply.ResponseSummary))
		if q.Reply.DiscountAmount.IsPositive() {
			fmt.Fprintf(&htmlBody, "<p>Descuento: $%s</p>", q.Reply.DiscountAmount.StringFixed(2))
		}
		fmt.Fprintf(&htmlBody, "<p>Total final: <strong>$%s</strong></p>", q.Reply.FinalTotal.StringFixed(2))
	}
	fmt.Fprintf(&htmlBody, `<p><a href="%s">Ver cotización</a></p>`, link)

	return Message{
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: htmlBody.String(),
	}
}

// WhatsAppLink builds a wa.me link preloaded with the quotation message.
// Returns empty when the phone has no usable digits.
func WhatsAppLink(phone string, msg Message) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(msg.TextBody)
}
