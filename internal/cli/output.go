package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const dateLayout = "2006-01-02"

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	atRiskColor   = color.New(color.FgYellow, color.Bold)
	safeColor     = color.New(color.FgGreen)
)

type writeOptions struct {
	Explain   bool
	UseColors bool
}

func levelLabel(l risk.Level, useColors bool) string {
	text := l.Label()
	if !useColors {
		return text
	}
	switch l {
	case risk.LevelCritical:
		return criticalColor.Sprint(text)
	case risk.LevelAtRisk:
		return atRiskColor.Sprint(text)
	default:
		return safeColor.Sprint(text)
	}
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', 0, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(dateLayout)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeVisit(w io.Writer, sv risk.ScoredVisit, opts writeOptions) error {
	headers := []string{"Visit", "Customer", "Date", "Delay", "Price", "Score", "Level"}
	row := []string{
		sv.Visit.ID,
		sv.Visit.CustomerID,
		formatDate(sv.Visit.VisitDate),
		strconv.Itoa(sv.Visit.ServiceDelayInDays),
		strconv.FormatFloat(sv.Visit.Price, 'f', 2, 64),
		formatScore(sv.Assessment.Score),
		levelLabel(sv.Assessment.Level, opts.UseColors),
	}
	if err := renderTable(w, headers, [][]string{row}); err != nil {
		return err
	}
	return writeFindings(w, sv.Assessment, opts)
}

func writeCustomer(w io.Writer, cr risk.CustomerRisk, opts writeOptions) error {
	headers := []string{"Customer", "Name", "Car", "Visits", "Last Visit", "Score", "Level"}
	row := []string{
		cr.Customer.ID,
		cr.Customer.Name,
		cr.Customer.Car.Model,
		strconv.Itoa(cr.VisitCount),
		formatDate(cr.LastVisit),
		formatScore(cr.Assessment.Score),
		levelLabel(cr.Assessment.Level, opts.UseColors),
	}
	if err := renderTable(w, headers, [][]string{row}); err != nil {
		return err
	}
	return writeFindings(w, cr.Assessment, opts)
}

func writeDealership(w io.Writer, r risk.Rollup, opts writeOptions) error {
	fmt.Fprintf(w, "%s (%s): %s/100 %s\n\n",
		r.Dealership.Company, r.Dealership.ID,
		formatScore(r.Assessment.Score), levelLabel(r.Assessment.Level, opts.UseColors))

	if len(r.Customers) > 0 {
		var data [][]string
		for i, cr := range r.Customers {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				cr.Customer.ID,
				cr.Customer.Name,
				strconv.Itoa(cr.VisitCount),
				formatDate(cr.LastVisit),
				formatScore(cr.Assessment.Score),
				levelLabel(cr.Assessment.Level, opts.UseColors),
			})
		}
		if err := renderTable(w, []string{"Rank", "Customer", "Name", "Visits", "Last Visit", "Score", "Level"}, data); err != nil {
			return err
		}
	}

	if len(r.WorstVisits) > 0 {
		fmt.Fprintln(w, "\nWorst visits:")
		var data [][]string
		for i, sv := range r.WorstVisits {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				sv.Visit.ID,
				sv.Visit.CustomerID,
				formatDate(sv.Visit.VisitDate),
				formatScore(sv.Assessment.Score),
				levelLabel(sv.Assessment.Level, opts.UseColors),
			})
		}
		if err := renderTable(w, []string{"Rank", "Visit", "Customer", "Date", "Score", "Level"}, data); err != nil {
			return err
		}
	}

	return writeFindings(w, r.Assessment, opts)
}

func writeFindings(w io.Writer, a risk.Assessment, opts writeOptions) error {
	sections := []struct {
		title string
		items []string
	}{
		{"Positives", a.Positives},
		{"Concerns", a.Concerns},
		{"Suggestions", a.Suggestions},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s:\n", s.title); err != nil {
			return err
		}
		for _, item := range s.items {
			if _, err := fmt.Fprintf(w, "  - %s\n", item); err != nil {
				return err
			}
		}
	}
	if opts.Explain && a.Explanation != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", a.Explanation); err != nil {
			return err
		}
	}
	return nil
}
