package emails

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

const (
	brandColor = "#D93A35"
	brandName  = "FIRMA ROLLERS"
)

func formatEUR(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}

// shortOrderID is the first 8 uuid characters, uppercased, as shown on the
// dashboard and in every email.
func shortOrderID(order *models.Order) string {
	id := order.ID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// layout wraps a body fragment in the shared branded shell.
func layout(body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1"></head>
<body style="margin:0;padding:0;background:#f9fafb;font-family:Arial,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background:#f9fafb;padding:40px 20px;">
    <tr><td align="center">
      <table width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border:1px solid #e5e7eb;border-radius:12px;overflow:hidden;max-width:560px;width:100%%;">
        <tr>
          <td style="background:%s;padding:28px 32px;">
            <p style="margin:0;color:#ffffff;font-size:20px;font-weight:900;letter-spacing:0.08em;text-transform:uppercase;">%s</p>
          </td>
        </tr>
        <tr><td style="padding:32px;">%s</td></tr>
        <tr>
          <td style="padding:20px 32px;border-top:1px solid #f3f4f6;">
            <p style="margin:0;color:#9ca3af;font-size:12px;">
              Si tienes alguna duda, contacta con tu gestor comercial en
              <a href="mailto:pedidos@firmarollers.com" style="color:%s;text-decoration:none;">pedidos@firmarollers.com</a>
            </p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, brandColor, brandName, body, brandColor)
}

func welcomeSubject(customer *models.Customer) string {
	return "Bienvenido al portal B2B · " + customer.CompanyName
}

func welcomeBody(customer *models.Customer) string {
	return layout(fmt.Sprintf(`
<p style="margin:0 0 16px;color:#111827;font-size:16px;font-weight:700;">Hola %s,</p>
<p style="margin:0 0 24px;color:#6b7280;font-size:14px;line-height:1.6;">
  Tu acceso al portal B2B de Firma Rollers para <strong style="color:#111827;">%s</strong>
  ya está activo. Desde el portal podrás consultar el catálogo, hacer pedidos y
  seguir el estado de tus envíos.
</p>
<p style="margin:0 0 4px;color:#6b7280;font-size:11px;font-weight:700;letter-spacing:0.1em;text-transform:uppercase;">Tu email de acceso</p>
<p style="margin:0 0 24px;color:#111827;font-size:14px;font-family:monospace;">%s</p>
<p style="margin:0;color:#6b7280;font-size:13px;">
  Tu contraseña inicial te la comunicará tu gestor de cuenta. Puedes cambiarla desde
  tu perfil una vez dentro.
</p>`, customer.ContactoNombre, customer.CompanyName, customer.Email))
}

func confirmationSubject(order *models.Order) string {
	return fmt.Sprintf("Pedido confirmado #%s · %s", shortOrderID(order), formatEUR(order.TotalProductos))
}

func confirmationBody(order *models.Order, customer *models.Customer) string {
	return layout(fmt.Sprintf(`
<p style="margin:0 0 16px;color:#111827;font-size:16px;font-weight:700;">Hola %s,</p>
<p style="margin:0 0 24px;color:#6b7280;font-size:14px;line-height:1.6;">
  Hemos recibido tu pedido <span style="font-family:monospace;font-weight:700;color:#111827;">#%s</span>
  y ya está confirmado. Te avisaremos cuando salga de nuestro almacén.
</p>
%s
<p style="margin:24px 0 0;color:#111827;font-size:14px;">
  Total productos: <strong style="color:%s;">%s</strong>
</p>`, customer.ContactoNombre, shortOrderID(order), itemsTable(order), brandColor, formatEUR(order.TotalProductos)))
}

func adminSubject(order *models.Order, customer *models.Customer) string {
	return fmt.Sprintf("Nuevo pedido · %s · %s", customer.CompanyName, formatEUR(order.TotalProductos))
}

func adminBody(order *models.Order, customer *models.Customer) string {
	return layout(fmt.Sprintf(`
<p style="margin:0 0 16px;color:#111827;font-size:16px;font-weight:700;">Nuevo pedido de %s</p>
<p style="margin:0 0 24px;color:#6b7280;font-size:14px;line-height:1.6;">
  Pedido <span style="font-family:monospace;font-weight:700;color:#111827;">#%s</span> ·
  contacto %s (%s)
</p>
%s
<p style="margin:24px 0 0;color:#111827;font-size:14px;">
  Total productos: <strong style="color:%s;">%s</strong> · Peso %s kg
</p>`, customer.CompanyName, shortOrderID(order), customer.ContactoNombre, customer.Email,
		itemsTable(order), brandColor, formatEUR(order.TotalProductos), order.PesoTotal.StringFixed(3)))
}

func shippedSubject(order *models.Order, customer *models.Customer) string {
	return fmt.Sprintf("Tu pedido #%s ha sido enviado · %s", shortOrderID(order), customer.CompanyName)
}

func shippedBody(order *models.Order, customer *models.Customer) string {
	tracking := ""
	if order.TrackingURL != nil && *order.TrackingURL != "" {
		tracking = fmt.Sprintf(`
<a href="%s" style="display:inline-block;margin-top:20px;padding:12px 28px;background:%s;color:#ffffff;text-decoration:none;font-size:14px;font-weight:700;border-radius:8px;">
  Seguir mi envío →
</a>`, *order.TrackingURL, brandColor)
	}
	return layout(fmt.Sprintf(`
<p style="margin:0 0 16px;color:#111827;font-size:16px;font-weight:700;">Hola %s,</p>
<p style="margin:0 0 24px;color:#6b7280;font-size:14px;line-height:1.6;">
  Tu pedido <span style="font-family:monospace;font-weight:700;color:#111827;">#%s</span>
  ya está en camino.
</p>%s`, customer.ContactoNombre, shortOrderID(order), tracking))
}

func itemsTable(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
<tr>
  <td style="padding:8px 0;color:#111827;font-size:13px;">%s</td>
  <td style="padding:8px 0;color:#6b7280;font-size:13px;font-family:monospace;">%s</td>
  <td style="padding:8px 0;color:#111827;font-size:13px;text-align:right;">%d × %s</td>
</tr>`, item.NombreProducto, item.SKU, item.Cantidad, formatEUR(item.PrecioUnitario)))
	}
	return fmt.Sprintf(`<table width="100%%" cellpadding="0" cellspacing="0" style="border-top:1px solid #e5e7eb;">%s</table>`, rows.String())
}
