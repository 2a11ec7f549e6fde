// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rivaas.dev/routecheck"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(2)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// Styled renders violations for a terminal: a heading per distinct
// violation with its count, followed by a summary table per kind. Colors
// are downsampled to what the terminal supports.
type Styled struct {
	// Environ is used to detect the color profile. Defaults to os.Environ().
	Environ []string

	// NoColor strips every ANSI sequence from the output.
	NoColor bool
}

// Format implements [Formatter].
func (s *Styled) Format(w io.Writer, errs *routecheck.ErrorContainer) error {
	environ := s.Environ
	if environ == nil {
		environ = os.Environ()
	}
	cpw := colorprofile.NewWriter(w, environ)
	if s.NoColor {
		cpw.Profile = colorprofile.NoTTY
	}

	var out strings.Builder
	if errs.Empty() {
		out.WriteString(okStyle.Render("No invalid routes found") + "\n")
		_, err := io.WriteString(cpw, out.String())

		return err
	}

	for i, e := range Entries(errs) {
		heading := headingStyle.Render(fmt.Sprintf("%d. %s", i+1, e.Kind))
		if e.Count > 1 {
			heading += " " + countStyle.Render(fmt.Sprintf("(x%d)", e.Count))
		}
		out.WriteString(heading + "\n")
		out.WriteString(bodyStyle.Render(e.Message) + "\n\n")
	}

	summary := Summarize(errs)
	rows := make([][]string, 0, len(summary)+1)
	distinct, total := 0, 0
	for _, k := range summary {
		rows = append(rows, []string{k.Kind, strconv.Itoa(k.Distinct), strconv.Itoa(k.Total)})
		distinct += k.Distinct
		total += k.Total
	}
	rows = append(rows, []string{"Total", strconv.Itoa(distinct), strconv.Itoa(total)})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Kind", "Distinct", "Total").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	out.WriteString(t.Render() + "\n")

	_, err := io.WriteString(cpw, out.String())

	return err
}
