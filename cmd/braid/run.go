package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"braid"
	"braid/pkg/adapters/bolt"
	"braid/pkg/registry"
	"braid/pkg/schema"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pipeline once and print its outputs",
	Long:  `Loads the pipeline definition, builds the model, executes it with the inputs given via --set, and prints the requested outputs as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		verbose, _ := cmd.Flags().GetBool("verbose")
		sets, _ := cmd.Flags().GetStringArray("set")
		strategy, _ := cmd.Flags().GetString("handler")
		storePath, _ := cmd.Flags().GetString("store")

		pipeline, err := loadPipeline(file)
		if err != nil {
			fmt.Printf("Error loading pipeline: %v\n", err)
			os.Exit(1)
		}

		model, err := buildModel(pipeline, strategy, storePath, verbose)
		if err != nil {
			fmt.Printf("Error building model: %v\n", err)
			os.Exit(1)
		}

		inputs, err := parseInputs(sets)
		if err != nil {
			fmt.Printf("Error parsing inputs: %v\n", err)
			os.Exit(1)
		}

		result, err := model.Call(context.Background(), inputs)
		if err != nil {
			fmt.Printf("Error running pipeline: %v\n", err)
			os.Exit(1)
		}

		printOutputs(model.Outputs(), result)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArray("set", nil, "Input value as name=value (repeatable; value parsed as YAML)")
	runCmd.Flags().String("handler", "counted", "Execution strategy: counted, plain, or durable")
	runCmd.Flags().String("store", "braid.db", "Store file for the durable strategy")
}

// loadPipeline parses the pipeline definition file.
func loadPipeline(file string) (*schema.Pipeline, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read pipeline %s: %w", file, err)
	}
	return schema.Parse(data)
}

// pipelineName falls back to a generic name for anonymous pipelines.
func pipelineName(p *schema.Pipeline) string {
	if p.Name != "" {
		return p.Name
	}
	return "pipeline"
}

// buildModel assembles the model for a parsed pipeline with the
// selected strategy.
func buildModel(pipeline *schema.Pipeline, strategy, storePath string, verbose bool, extra ...braid.Option) (*braid.Model, error) {
	g, err := pipeline.Compile(registry.Default())
	if err != nil {
		return nil, err
	}

	opts := []braid.Option{
		braid.WithName(pipelineName(pipeline)),
		braid.WithLogger(newLogger(verbose)),
		braid.WithExtraOutputs(pipeline.Outputs...),
	}
	switch strategy {
	case "counted":
		// Default strategy.
	case "plain":
		opts = append(opts, braid.WithPlain())
	case "durable":
		opts = append(opts, braid.WithDurable(bolt.NewStore(storePath)))
	default:
		return nil, fmt.Errorf("unknown handler %q (want counted, plain, or durable)", strategy)
	}
	opts = append(opts, extra...)

	return braid.New(g, opts...)
}

// parseInputs turns --set name=value pairs into typed inputs; values
// go through the YAML parser so numbers and sequences arrive typed.
func parseInputs(sets []string) (map[string]any, error) {
	inputs := make(map[string]any, len(sets))
	for _, pair := range sets {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want name=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}
		inputs[name] = value
	}
	return inputs, nil
}

func printOutputs(names []string, result any) {
	outputs := make(map[string]any, len(names))
	if len(names) == 1 {
		outputs[names[0]] = result
	} else if values, ok := result.([]any); ok {
		for i, name := range names {
			outputs[name] = values[i]
		}
	}
	rendered, err := yaml.Marshal(outputs)
	if err != nil {
		fmt.Printf("Error rendering outputs: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(rendered))
}
