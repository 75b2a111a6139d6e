package export

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pageMargin        = 40.0
	fontBody          = "Helvetica"
	lineHeightFactor  = 1.15
	headerImageHeight = 80.0

	gridLabelHeight   = 18.0
	gridInvoiceHeader = 24.0
	gridMinCell       = 18.0

	tableHeaderHeight = 28.0
	tableMinRow       = 24.0
	tableLineGap      = 2.0

	netAmountHeight = 20.0
	wordsMinHeight  = 30.0

	footerHeight         = 200.0
	signatureLabelHeight = 25.0
	signatureCellHeight  = 120.0
	signatureWidth       = 100.0
	signatureHeight      = 50.0

	companyName = "CHAMUNDA ENTERPRISE"
)

var companyLines = []struct {
	text    string
	advance float64
}{
	{"GSTIN NO.: 24BETPM5139L1ZW  State : Gujrat(24) COMPOSITION DEALERS", 14},
	{"Bank Name : Indian Overseas Bank, Gotri Road, Vadodara.", 14},
	{"A/c. No. : 171702000000945         IFSC Code : IOBA0001717", 20},
}

var terms = []string{
	"1) Measurement shall be consider as Standard Size.",
	"2) All Goods will be dispatched entirely at the owner risk our responsibility cease as soon as the goods leave our premises.",
	"3) Goods once sold will not be taken back.",
	"4) 24% Interest will be charged if the payment is not made within due date.",
	"",
	"Subject to VADODARA Jursidiction",
}

type column struct {
	label  string
	factor float64
	align  string
}

var itemColumns = []column{
	{"No.", 0.05, "C"},
	{"Description of goods", 0.25, "L"},
	{"Size", 0.08, "C"},
	{"Size", 0.08, "C"},
	{"Nos.", 0.08, "C"},
	{"Qty.", 0.08, "R"},
	{"Rate", 0.10, "R"},
	{"Per", 0.08, "C"},
	{"Amount Rs", 0.20, "R"},
}

var tableHeaderFill = [3]int{0xe8, 0xe3, 0xd5}

// columnWidths floors each column's share of total and gives the rounding
// remainder to the last column.
func columnWidths(total float64) []float64 {
	var factorSum float64
	for _, c := range itemColumns {
		factorSum += c.factor
	}
	widths := make([]float64, len(itemColumns))
	var sum float64
	for i, c := range itemColumns {
		widths[i] = math.Floor(c.factor / factorSum * total)
		sum += widths[i]
	}
	widths[len(widths)-1] += total - sum
	return widths
}

func lineHeight(size, gap float64) float64 {
	return size*lineHeightFactor + gap
}

// document tracks the cursor over a gofpdf page sequence.
type document struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	left   float64
	width  float64
	bottom float64
	y      float64
	size   float64
}

func (d *document) setFont(family, style string, size float64) {
	d.pdf.SetFont(family, style, size)
	d.size = size
}

func (d *document) setLineWidth(w float64) { d.pdf.SetLineWidth(w) }

func (d *document) rect(x, y, w, h float64) { d.pdf.Rect(x, y, w, h, "D") }

// textHeight measures text wrapped to width in the current font.
func (d *document) textHeight(text string, width, size, gap float64) float64 {
	if text == "" {
		return 0
	}
	lines := d.pdf.SplitLines([]byte(d.tr(text)), width)
	return float64(len(lines)) * lineHeight(size, gap)
}

// text writes wrapped text with its top edge at y.
func (d *document) text(x, y, width float64, text string, gap float64, align string) {
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(width, lineHeight(d.size, gap), d.tr(text), "", align, false)
}

// ensureSpace starts a new page when h does not fit below the cursor.
func (d *document) ensureSpace(h float64) bool {
	if d.y+h <= d.bottom {
		return false
	}
	d.pdf.AddPage()
	d.y = pageMargin
	return true
}

func (d *document) drawBuyerInvoiceGrid(data *InvoiceData, now time.Time) {
	leftW := d.width * 0.6
	rightW := d.width * 0.4
	rightX := d.left + leftW
	colW := rightW * 0.5
	col2X := rightX + colW

	buyerText := orDefault(data.Buyer, "Buyer Name/Address")
	gstText := orDefault(data.BuyerGSTIN, "GSTIN Number")
	invoiceNumber := orDefault(data.InvoiceNumber, "-")
	dateText := orDefault(data.Date, fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year()))

	d.setFont(fontBody, "", 9)
	buyerCellH := gridLabelHeight + math.Max(24, d.textHeight(buyerText, leftW-16, 9, 0)+10)
	gstCellH := gridLabelHeight + math.Max(20, d.textHeight(gstText, leftW-16, 9, 0)+8)
	leftH := buyerCellH + gstCellH

	pair := func(a, b string, pad float64) float64 {
		ha := math.Max(gridMinCell, d.textHeight(a, colW-20, 9, 0)+pad)
		hb := math.Max(gridMinCell, d.textHeight(b, colW-20, 9, 0)+pad)
		return math.Max(ha, hb)
	}
	row1H := pair(invoiceNumber, dateText, 20)
	row2H := pair(data.Note1, data.Note3, 12)
	row3H := pair(data.Note2, data.Note4, 12)
	rightH := gridInvoiceHeader + row1H + row2H + row3H

	sectionH := math.Max(leftH, rightH)
	gstCellH += sectionH - leftH
	row3H += sectionH - rightH

	d.ensureSpace(sectionH)
	top := d.y

	d.setLineWidth(0.5)
	d.rect(d.left, top, d.width, sectionH)
	d.pdf.Line(rightX, top, rightX, top+sectionH)

	d.rect(d.left, top, leftW, buyerCellH)
	d.setFont(fontBody, "B", 10)
	d.text(d.left+8, top+4, leftW-16, "BUYER :-", 0, "L")
	d.setFont(fontBody, "", 9)
	d.text(d.left+8, top+gridLabelHeight, leftW-16, buyerText, 0, "L")

	gstY := top + buyerCellH
	d.rect(d.left, gstY, leftW, gstCellH)
	d.setFont(fontBody, "B", 10)
	d.text(d.left+8, gstY+4, leftW-16, "GSTIN No:-", 0, "L")
	d.setFont(fontBody, "", 9)
	d.text(d.left+8, gstY+gridLabelHeight, leftW-16, gstText, 0, "L")

	d.rect(rightX, top, rightW, gridInvoiceHeader)
	d.setFont(fontBody, "B", 12)
	d.text(rightX, top+6, rightW, "INVOICE", 0, "C")

	rowY := top + gridInvoiceHeader
	d.rect(rightX, rowY, colW, row1H)
	d.rect(col2X, rowY, colW, row1H)
	d.setFont(fontBody, "B", 9)
	d.text(rightX+8, rowY+6, colW-16, "No:-", 0, "L")
	d.text(col2X+8, rowY+6, colW-16, "Date:-", 0, "L")
	d.setFont(fontBody, "", 9)
	d.text(rightX+8, rowY+18, colW-16, invoiceNumber, 0, "L")
	d.text(col2X+8, rowY+18, colW-16, dateText, 0, "L")

	rowY += row1H
	d.rect(rightX, rowY, colW, row2H)
	d.rect(col2X, rowY, colW, row2H)
	d.text(rightX+8, rowY+6, colW-16, data.Note1, 0, "L")
	d.text(col2X+8, rowY+6, colW-16, data.Note3, 0, "L")

	rowY += row2H
	d.rect(rightX, rowY, colW, row3H)
	d.rect(col2X, rowY, colW, row3H)
	d.text(rightX+8, rowY+6, colW-16, data.Note2, 0, "L")
	d.text(col2X+8, rowY+6, colW-16, data.Note4, 0, "L")

	d.y = top + sectionH + 10
}

// drawItemsTable draws the items table, continuing on new pages with the
// header row repeated, and returns the net amount.
func (d *document) drawItemsTable(lines []Line) decimal.Decimal {
	widths := columnWidths(d.width)
	d.y += 10

	rows := make([][]string, len(lines))
	net := decimal.Zero
	for i, l := range lines {
		amount := l.Amount()
		net = net.Add(amount)
		rows[i] = []string{
			strconv.Itoa(i + 1),
			l.Description,
			l.SizeHeight,
			l.SizeWidth,
			l.Nos,
			l.Quantity.String(),
			l.Rate.StringFixed(2),
			orDefault(l.Per, "PCS"),
			amount.StringFixed(2),
		}
	}

	d.setFont(fontBody, "", 9)
	heights := make([]float64, len(rows))
	for i, row := range rows {
		h := 0.0
		for c, value := range row {
			h = math.Max(h, d.textHeight(orDefault(value, " "), widths[c]-8, 9, tableLineGap)+12)
		}
		heights[i] = math.Max(h, tableMinRow)
	}

	first := tableHeaderHeight
	if len(heights) > 0 {
		first += heights[0]
	}
	d.ensureSpace(first)
	d.drawTableHeader(widths)

	for i, row := range rows {
		if d.ensureSpace(heights[i]) {
			d.drawTableHeader(widths)
		}
		d.setLineWidth(0.6)
		d.setFont(fontBody, "", 9)
		x := d.left
		for c, value := range row {
			d.rect(x, d.y, widths[c], heights[i])
			d.text(x+4, d.y+6, widths[c]-8, value, tableLineGap, itemColumns[c].align)
			x += widths[c]
		}
		d.y += heights[i]
	}
	return net
}

func (d *document) drawTableHeader(widths []float64) {
	d.setLineWidth(0.6)
	d.pdf.SetFillColor(tableHeaderFill[0], tableHeaderFill[1], tableHeaderFill[2])
	d.setFont(fontBody, "B", 9)
	x := d.left
	for c, col := range itemColumns {
		d.pdf.Rect(x, d.y, widths[c], tableHeaderHeight, "FD")
		d.text(x+4, d.y+8, widths[c]-8, col.label, 0, col.align)
		x += widths[c]
	}
	d.y += tableHeaderHeight
}

func (d *document) drawAmountSection(net decimal.Decimal) {
	words := NumberToWords(net)
	d.setFont(fontBody, "", 9)
	wordsH := math.Max(wordsMinHeight, 20+d.textHeight(words, d.width-8, 9, 0)+4)

	d.y += 10
	d.ensureSpace(netAmountHeight + 2 + wordsH)
	d.setLineWidth(0.5)

	d.rect(d.left, d.y, d.width, netAmountHeight)
	d.setFont(fontBody, "B", 10)
	d.text(d.left+4, d.y+6, d.width*0.7, "Net Amount Rs", 0, "R")
	d.text(d.left+d.width*0.7, d.y+6, d.width*0.3-8, net.StringFixed(2), 0, "R")
	d.y += netAmountHeight + 2

	d.rect(d.left, d.y, d.width, wordsH)
	d.text(d.left+4, d.y+6, d.width-8, "Rupees in Words :-", 0, "L")
	d.setFont(fontBody, "", 9)
	d.text(d.left+4, d.y+20, d.width-8, words, 0, "L")

	d.y += wordsH + 10
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
