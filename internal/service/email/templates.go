package email

import (
	"fmt"
	"html/template"
)

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 24px; border-radius: 10px 10px 0 0; }
        .content { padding: 24px; border: 1px solid #e5e7eb; border-top: none; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 6px 0; border-bottom: 1px solid #f3f4f6; }
        .total { font-weight: 600; text-align: right; }
        .footer { font-size: 12px; color: #6b7280; padding: 16px; text-align: center; }
    </style>
</head>
<body>
    <div class="header"><h1>{{.Headline}}</h1></div>
    <div class="content">{{template "body" .}}</div>
    <div class="footer"><a href="{{.StoreURL}}">Appliance Store</a></div>
</body>
</html>{{end}}`

const orderConfirmationBody = `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>We received order <strong>{{.Order.ID}}</strong> and will ship it to:</p>
<p>{{.Order.ShippingAddress}}</p>
<table>
{{range .Order.Items}}<tr><td>{{.Quantity}} x {{.Name}}</td><td class="total">{{money .Subtotal}}</td></tr>
{{end}}<tr><td><strong>Total</strong></td><td class="total">{{money .Order.Total}}</td></tr>
</table>
{{end}}{{template "layout" .}}`

const orderStatusBody = `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Order <strong>{{.Order.ID}}</strong> is now <strong>{{.Order.Status}}</strong>.</p>
{{with .Order.DeliveryDate}}<p>Delivered on {{.Format "January 2, 2006"}}.</p>{{end}}
{{end}}{{template "layout" .}}`
