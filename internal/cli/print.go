package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"maintenanceManagement/internal/workorder"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

func success(w io.Writer, msg string) {
	if msg != "" {
		okColor.Fprintln(w, msg)
	}
}

func failure(w io.Writer, msg string) {
	failColor.Fprintln(w, msg)
}

// printRows renders one page of work orders as a table.
func printRows(w io.Writer, rows []workorder.Row, page, totalPages int) {
	if len(rows) == 0 {
		dimColor.Fprintln(w, "No hay órdenes de trabajo.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOT\tUSUARIO\tESTADO\tSOLICITUD\tINICIO\tFIN\tMIN")
	for _, r := range rows {
		state := r.State
		if state == "" {
			state = strconv.FormatInt(r.IDOTState, 10)
		}
		minutes := "-"
		if r.CompletionTime != nil {
			minutes = strconv.Itoa(*r.CompletionTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.OrderNumber, r.Username, state, r.RequestDate, r.InitialDate, r.CompletionDate, minutes)
	}
	_ = tw.Flush()
	dimColor.Fprintf(w, "Página %d de %d\n", page, totalPages)
}
