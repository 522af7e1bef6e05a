package services

import (
	"fmt"
	"io"

	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/jung-kurt/gofpdf"
)

// A4 layout in millimetres; the page is split into a delivery slip on top
// and an invoice below so the operator can cut it in half.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	halfHeight = pageHeight / 2
	pageMargin = 12.0
)

// PDFRenderer generates the combined delivery-slip/invoice document for an order
type PDFRenderer struct {
	BusinessName  string
	BusinessPhone string
}

// NewPDFRenderer creates a renderer stamped with the merchant details
func NewPDFRenderer(businessName, businessPhone string) *PDFRenderer {
	return &PDFRenderer{
		BusinessName:  businessName,
		BusinessPhone: businessPhone,
	}
}

// RenderOrder writes the A4 delivery slip + invoice for the order to w
func (r *PDFRenderer) RenderOrder(w io.Writer, order *models.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	r.drawCuttingLine(pdf)
	r.drawDeliverySlip(pdf, order)
	r.drawInvoice(pdf, order)

	return pdf.Output(w)
}

func (r *PDFRenderer) drawCuttingLine(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetDashPattern([]float64{2, 2}, 0)
	pdf.Line(0, halfHeight, pageWidth, halfHeight)
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetXY(pageMargin, halfHeight-6)
	pdf.CellFormat(pageWidth-2*pageMargin, 4, "--- CUT HERE ---", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) drawDeliverySlip(pdf *gofpdf.Fpdf, order *models.Order) {
	y := pageMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(pageWidth-2*pageMargin, 8, "DELIVERY ADDRESS", "", 0, "C", false, 0, "")
	y += 14

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, "FROM:", "", 0, "L", false, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, r.BusinessName, "", 0, "L", false, 0, "")
	y += 6

	if r.BusinessPhone != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(0, 5, "Phone: "+r.BusinessPhone, "", 0, "L", false, 0, "")
		y += 6
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, "TO:", "", 0, "L", false, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 6, order.CustomerName, "", 0, "L", false, 0, "")
	y += 7

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		order.DeliveryAddress,
		addressLocality(order),
		"Phone: " + order.CustomerPhone,
	} {
		pdf.SetXY(pageMargin, y)
		pdf.MultiCell(pageWidth-2*pageMargin, 5, line, "", "L", false)
		y = pdf.GetY() + 1
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 6, "Order: "+order.OrderNumber, "", 0, "L", false, 0, "")
}

func addressLocality(order *models.Order) string {
	locality := order.City + " - " + order.Pincode
	if order.Landmark != nil && *order.Landmark != "" {
		locality += " (near " + *order.Landmark + ")"
	}
	return locality
}

func (r *PDFRenderer) drawInvoice(pdf *gofpdf.Fpdf, order *models.Order) {
	y := halfHeight + pageMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(pageWidth-2*pageMargin, 8, "INVOICE", "", 0, "C", false, 0, "")
	y += 12

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, "Order Number: "+order.OrderNumber, "", 0, "L", false, 0, "")
	y += 5
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, "Date: "+order.CreatedAt.Format("02 Jan 2006"), "", 0, "L", false, 0, "")
	y += 5
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 5, "Customer: "+order.CustomerName, "", 0, "L", false, 0, "")
	y += 9

	// Item table header
	colItem := pageWidth - 2*pageMargin - 25 - 30 - 30
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(colItem, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 0, "R", true, 0, "")
	y += 7

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(colItem, 7, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("Rs. %.2f", item.PricePerUnit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("Rs. %.2f", item.TotalPrice), "1", 0, "R", false, 0, "")
		y += 7
	}
	y += 3

	totals := []struct {
		label string
		value float64
		bold  bool
	}{
		{"Subtotal", order.Subtotal, false},
		{"Delivery Charge", order.DeliveryCharge, false},
		{"Total", order.TotalAmount, true},
	}

	for _, row := range totals {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(colItem+25+30, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("Rs. %.2f", row.value), "", 0, "R", false, 0, "")
		y += 6
	}

	y += 6
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(pageWidth-2*pageMargin, 5, "Thank you for shopping with "+r.BusinessName+"!", "", 0, "C", false, 0, "")
}
