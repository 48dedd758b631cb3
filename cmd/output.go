package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/efindex-cli/internal/utils"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	headingColor = color.New(color.FgYellow, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

func heading(w io.Writer, format string, a ...any) {
	headingColor.Fprintf(w, "\n"+format+"\n", a...)
}

func success(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	warnColor.Fprintf(w, "⚠ "+format+"\n", a...)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
