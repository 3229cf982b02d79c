package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"projmerge/internal/adapters"
	"projmerge/internal/report"
)

var formatDescriptions = map[adapters.Format]string{
	adapters.FormatMain: "master registry",
	adapters.FormatBIA:  "Bureau of Indian Affairs projects",
	adapters.FormatDOE:  "Department of Energy projects",
	adapters.FormatDOI:  "Department of the Interior projects",
	adapters.FormatEPA:  "Environmental Protection Agency grants",
	adapters.FormatNOAA: "NOAA awards",
	adapters.FormatUSBR: "Bureau of Reclamation projects",
}

func newFormatsCommand() *cobra.Command {
	var showCategories bool

	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List supported source formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			formats := append([]adapters.Format{adapters.FormatMain}, adapters.SourceFormats...)
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				tag := "*" + string(f) + "*"
				if f == adapters.FormatMain {
					tag = "(registry argument)"
				}
				rows = append(rows, []string{string(f), f.Prefix(), tag, formatDescriptions[f]})
			}
			fmt.Fprintln(out, report.RenderTable([]string{"Format", "ID Prefix", "File Name", "Description"}, rows, nil))

			if showCategories {
				categories := adapters.DefaultTables().Categories()
				catRows := make([][]string, 0, len(categories))
				for _, c := range categories {
					catRows = append(catRows, []string{c})
				}
				fmt.Fprintln(out, report.RenderTable([]string{"Category"}, catRows, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCategories, "categories", false, "Also list the categories adapters can assign")
	return cmd
}
