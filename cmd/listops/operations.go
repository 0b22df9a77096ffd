package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/grafana/listops/pkg/setops"
)

func addOperationsCommand(app *kingpin.Application) {
	app.Command("operations", "List the supported set operations.").Action(func(_ *kingpin.ParseContext) error {
		printOperations()
		return nil
	})
}

func printOperations() {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Println("Operations:")
	for _, op := range setops.Operations() {
		result := "list"
		if op.IsBoolean() {
			result = "boolean"
		}
		fmt.Printf("\t%-22s", op)
		faint.Printf("-> %s\n", result)
	}
}
