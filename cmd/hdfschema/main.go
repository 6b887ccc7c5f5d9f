// Command hdfschema validates JSON container documents against
// hdfschema schema documents and synthesizes schemas from containers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/kaptinlin/go-i18n"
	"github.com/spf13/cobra"

	"github.com/kaptinlin/hdfschema"
	"github.com/kaptinlin/hdfschema/tree"
)

const (
	exitValid       = 0
	exitInvalid     = 1
	exitUsageOrLoad = 2
)

func main() {
	exitCode := exitValid

	rootCmd := &cobra.Command{
		Use:           "hdfschema",
		Short:         "Validate hierarchical data containers against declarative schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var locale string
	validateCmd := &cobra.Command{
		Use:   "validate <container.json> <schema.(json|yaml)>",
		Short: "Validate a container document against a schema",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = runValidate(args[0], args[1], locale)
		},
	}
	validateCmd.Flags().StringVar(&locale, "locale", "en", "locale for error messages")

	generateCmd := &cobra.Command{
		Use:   "generate <container.json>",
		Short: "Synthesize a schema from a container document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = runGenerate(args[0])
		},
	}

	rootCmd.AddCommand(validateCmd, generateCmd)
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		exitCode = exitUsageOrLoad
	}
	os.Exit(exitCode)
}

func runValidate(containerPath, schemaPath, locale string) int {
	schema, err := compileSchemaFile(schemaPath)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		return exitUsageOrLoad
	}
	node, err := tree.Load(containerPath)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		return exitUsageOrLoad
	}

	result, err := schema.Validate(node)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		return exitUsageOrLoad
	}
	if result.IsValid() {
		color.New(color.FgGreen).Printf("%s conforms to %s\n", containerPath, schemaPath)
		return exitValid
	}

	localizer := newLocalizer(locale)
	red := color.New(color.FgRed)
	for _, line := range result.ToList(localizer) {
		red.Println(line)
	}
	fmt.Printf("%d error(s)\n", len(result.Errors))
	return exitInvalid
}

func runGenerate(containerPath string) int {
	node, err := tree.Load(containerPath)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		return exitUsageOrLoad
	}
	data, err := hdfschema.GenerateSchemaJSON(node)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		return exitUsageOrLoad
	}
	fmt.Println(string(data))
	return exitValid
}

func compileSchemaFile(path string) (*hdfschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return hdfschema.CompileYAML(data)
	default:
		return hdfschema.Compile(data)
	}
}

func newLocalizer(locale string) *i18n.Localizer {
	bundle, err := hdfschema.GetI18n()
	if err != nil {
		return nil
	}
	return bundle.NewLocalizer(locale)
}
