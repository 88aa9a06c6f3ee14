// Package report renders payoff simulations as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kayleers/clearledger-sub001/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	rowHeight = 6.0
)

var scheduleColumns = []struct {
	title string
	width float64
}{
	{"Month", 18},
	{"Start Balance", 30},
	{"Purchases", 24},
	{"Payment", 26},
	{"Interest", 26},
	{"Principal", 26},
	{"End Balance", 30},
}

// PayoffReport lays out one simulation: a summary page followed by the
// month-by-month schedule.
type PayoffReport struct {
	pdf     *fpdf.Fpdf
	request domain.PayoffRequest
	result  domain.SimulationResult
	tr      func(string) string
	now     func() time.Time
}

// GeneratePayoffPDF renders the simulation of req as a PDF document.
func GeneratePayoffPDF(req domain.PayoffRequest, result domain.SimulationResult) ([]byte, error) {
	r := &PayoffReport{
		pdf:     fpdf.New("P", "mm", "A4", ""),
		request: req,
		result:  result,
		now:     time.Now,
	}

	// Core fonts are cp1252; names may carry accented characters.
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")

	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(r.title(), true)
	r.pdf.SetFooterFunc(r.drawFooter)

	r.addSummaryPage()
	if len(result.Breakdown) > 0 {
		r.addSchedule()
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payoff pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PayoffReport) title() string {
	if r.request.Name != "" {
		return r.request.Name + " Payoff Plan"
	}
	return "Payoff Plan"
}

func (r *PayoffReport) addSummaryPage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(20)
	r.pdf.CellFormat(contentWidth, 12, r.tr(r.title()), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(4)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", r.now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	r.pdf.Ln(12)
	r.drawBox("Inputs", [][2]string{
		{"Starting balance", FormatMoney(r.request.Balance)},
		{"APR", fmt.Sprintf("%.2f%%", r.request.APR*100)},
		{"Strategy", strategyLabel(r.request)},
	})

	r.pdf.Ln(8)
	r.drawBox("Result", [][2]string{
		{"Time to pay off", r.result.MonthsLabel()},
		{"Total interest", FormatMoney(r.result.TotalInterest)},
		{"Total paid", FormatMoney(r.result.TotalPaid)},
		{"Ending balance", FormatMoney(r.result.EndingBalance)},
	})

	if r.result.Outcome == domain.OutcomeNever || r.result.Outcome == domain.OutcomeHorizonReached {
		r.pdf.Ln(8)
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.SetTextColor(170, 30, 30)
		r.pdf.MultiCell(contentWidth, 5.5,
			"Warning: at this payment the balance is not paid off. Increase the monthly payment to reach a payoff date.",
			"", "C", false)
	}

	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"Projections assume the rate and payments stay as entered and interest accrues monthly at APR/12. "+
			"Figures are estimates for planning only and are not financial advice.", "", "C", false)
}

func (r *PayoffReport) drawBox(heading string, rows [][2]string) {
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, heading, "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	half := contentWidth / 2
	for i, row := range rows {
		border := "L"
		rightBorder := "R"
		if i == len(rows)-1 {
			border = "LB"
			rightBorder = "RB"
		}
		r.pdf.CellFormat(half, 7, row[0], border, 0, "L", true, 0, "")
		r.pdf.CellFormat(half, 7, row[1], rightBorder, 1, "R", true, 0, "")
	}
}

func (r *PayoffReport) addSchedule() {
	r.pdf.AddPage()
	r.drawSectionHeader("Payment Schedule")
	r.drawScheduleHeader()

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)

	_, pageHeight := r.pdf.GetPageSize()
	for i, rec := range r.result.Breakdown {
		if r.pdf.GetY()+rowHeight > pageHeight-marginBottom {
			r.pdf.AddPage()
			r.drawScheduleHeader()
			r.pdf.SetFont("Arial", "", 9)
			r.pdf.SetTextColor(50, 50, 50)
		}

		fill := i%2 == 1
		r.pdf.SetFillColor(245, 247, 250)
		values := []string{
			fmt.Sprintf("%d", rec.Month),
			FormatMoney(rec.BalanceBefore),
			FormatMoney(rec.Purchase),
			FormatMoney(rec.Payment),
			FormatMoney(rec.Interest),
			FormatMoney(rec.Principal),
			FormatMoney(rec.BalanceAfter),
		}
		for j, col := range scheduleColumns {
			align := "R"
			if j == 0 {
				align = "C"
			}
			r.pdf.CellFormat(col.width, rowHeight, values[j], "", 0, align, fill, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func (r *PayoffReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *PayoffReport) drawScheduleHeader() {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for _, col := range scheduleColumns {
		r.pdf.CellFormat(col.width, 7, col.title, "", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PayoffReport) drawFooter() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.CellFormat(contentWidth, 10, fmt.Sprintf("Page %d", r.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func strategyLabel(req domain.PayoffRequest) string {
	switch req.Strategy {
	case domain.StrategyFixed:
		return fmt.Sprintf("Fixed payment of %s", FormatMoney(req.MonthlyPayment))
	case domain.StrategyMinimum:
		return fmt.Sprintf("Minimum payment of %s", FormatMoney(req.MinimumPayment))
	case domain.StrategyVariable:
		return fmt.Sprintf("Variable schedule (%d entries)", len(req.Payments))
	case domain.StrategyTarget:
		return fmt.Sprintf("Paid off in %d months", req.TargetMonths)
	}
	return string(req.Strategy)
}
