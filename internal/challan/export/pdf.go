// Package export renders challans into the fixed-layout invoice PDF.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// InvoiceData aggregates the challan fields printed on the invoice.
type InvoiceData struct {
	InvoiceNumber string
	Date          string
	Buyer         string
	BuyerGSTIN    string
	Note1         string
	Note2         string
	Note3         string
	Note4         string
	Lines         []Line
}

// Line is one row of the items table.
type Line struct {
	Description string
	SizeHeight  string
	SizeWidth   string
	Nos         string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Per         string
}

// Amount returns quantity × rate.
func (l Line) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}

// NetAmount sums the line amounts.
func (d *InvoiceData) NetAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// DurationObserver records render latency.
type DurationObserver interface {
	ObservePDFRender(d time.Duration)
}

// Options configures a Renderer.
type Options struct {
	// Dir receives rendered files; empty means <os temp>/challans.
	Dir           string
	LogoPath      string
	SignaturePath string
	Logger        *slog.Logger
	Metrics       DurationObserver
}

// Renderer lays out invoices with gofpdf and writes them to temporary files.
type Renderer struct {
	dir           string
	logoPath      string
	signaturePath string
	logger        *slog.Logger
	metrics       DurationObserver
	images        imageCache
	now           func() time.Time
}

// NewRenderer constructs a Renderer.
func NewRenderer(opts Options) *Renderer {
	dir := opts.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "challans")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		dir:           dir,
		logoPath:      opts.LogoPath,
		signaturePath: opts.SignaturePath,
		logger:        logger,
		metrics:       opts.Metrics,
		now:           time.Now,
	}
}

// Dir returns the output directory.
func (r *Renderer) Dir() string { return r.dir }

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Render writes the invoice to a new file in the output directory and returns
// its path. The caller removes the file once it has been delivered.
func (r *Renderer) Render(ctx context.Context, data *InvoiceData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("invoice data is required to generate PDF")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create pdf dir: %w", err)
	}

	name := unsafeNameChars.ReplaceAllString(data.InvoiceNumber, "")
	if name == "" {
		name = fmt.Sprintf("invoice-%d", r.now().UnixMilli())
	}
	f, err := os.CreateTemp(r.dir, name+"-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create pdf file: %w", err)
	}
	path := f.Name()

	if err := r.RenderTo(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close pdf file: %w", err)
	}
	return path, nil
}

// RenderTo lays out the invoice and writes the PDF to w.
func (r *Renderer) RenderTo(w io.Writer, data *InvoiceData) error {
	if data == nil {
		return fmt.Errorf("invoice data is required to generate PDF")
	}
	start := time.Now()
	pdf := r.layout(data)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if r.metrics != nil {
		r.metrics.ObservePDFRender(time.Since(start))
	}
	return nil
}

func (r *Renderer) layout(data *InvoiceData) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCellMargin(0)
	pdf.SetCreator(companyName, true)
	pdf.SetTitle("Invoice "+data.InvoiceNumber, true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	doc := &document{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		left:   pageMargin,
		width:  pageW - 2*pageMargin,
		bottom: pageH - pageMargin,
		y:      pageMargin,
	}

	r.drawHeader(doc)
	doc.drawBuyerInvoiceGrid(data, r.now())
	net := doc.drawItemsTable(data.Lines)
	doc.drawAmountSection(net)
	r.drawFooter(doc)
	return pdf
}

func (r *Renderer) drawHeader(doc *document) {
	boxW := doc.width * 0.8
	boxH := headerImageHeight

	img, err := r.images.load(r.logoPath, boxW, boxH)
	if err == nil {
		err = img.register(doc.pdf, "logo")
	}
	if err != nil {
		r.logger.Warn("logo unavailable, using placeholder", "path", r.logoPath, "error", err)
		doc.setFont(fontBody, "", 10)
		doc.text(doc.left, doc.y, doc.width, "Company Logo", 0, "C")
		doc.y += lineHeight(10, 0) * 1.2
		return
	}

	w, h := img.fit(boxW, boxH)
	x := doc.left + (doc.width-w)/2
	doc.pdf.ImageOptions("logo", x, doc.y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	doc.y += boxH + 15
}

func (r *Renderer) drawFooter(doc *document) {
	doc.y += 10
	doc.ensureSpace(footerHeight)

	leftW := doc.width * 0.6
	rightW := doc.width * 0.4
	rightX := doc.left + leftW
	top := doc.y

	doc.setLineWidth(0.5)
	doc.rect(doc.left, top, leftW, footerHeight)

	leftY := top + 6
	doc.setFont(fontBody, "", 8)
	for _, line := range companyLines {
		doc.text(doc.left+4, leftY, leftW-8, line.text, 0, "L")
		leftY += line.advance
	}
	doc.setFont(fontBody, "B", 9)
	doc.text(doc.left+4, leftY, leftW-8, "Term & Condition:", 0, "L")
	leftY += 16

	doc.setFont(fontBody, "", 8)
	for _, term := range terms {
		if term == "" {
			leftY += 6
			continue
		}
		h := doc.textHeight(term, leftW-16, 8, 0) + 8
		doc.text(doc.left+8, leftY+4, leftW-16, term, 0, "L")
		leftY += h
	}

	doc.rect(rightX, top, rightW, footerHeight)
	doc.rect(rightX, top, rightW, signatureLabelHeight)
	doc.setFont(fontBody, "B", 10)
	doc.text(rightX, top+8, rightW, "For "+companyName, 0, "C")

	sigCellY := top + signatureLabelHeight
	doc.rect(rightX, sigCellY, rightW, signatureCellHeight)
	img, err := r.images.load(r.signaturePath, signatureWidth, signatureHeight)
	if err == nil {
		err = img.register(doc.pdf, "signature")
	}
	if err != nil {
		r.logger.Warn("signature unavailable", "path", r.signaturePath, "error", err)
	} else {
		w, h := img.fit(signatureWidth, signatureHeight)
		x := rightX + (rightW-w)/2
		y := sigCellY + (signatureCellHeight-h)/2
		doc.pdf.ImageOptions("signature", x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	signatoryY := sigCellY + signatureCellHeight
	doc.rect(rightX, signatoryY, rightW, signatureLabelHeight)
	doc.setFont(fontBody, "B", 10)
	doc.text(rightX, signatoryY+8, rightW, "Authorised Signatory", 0, "C")

	doc.y = top + footerHeight
}
