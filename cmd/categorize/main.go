package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mikey/llm-email-categorizer/internal/di"
)

var flags di.CLIFlags

// rootCmd is the main Cobra command for the categorize CLI
var rootCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize customer emails with a hosted language model",
	Long: `Categorize runs the email categorization pipeline locally over raw .eml files.

Emails are batched, classified by the model named in the pipeline configuration
and printed as complaints. Notifications are logged unless --publish is set.

Examples:
  categorize classify --pipeline configs/pipeline.yaml mail/*.eml
  categorize classify --config configs/config.yaml --publish message.eml
  categorize check-config --pipeline configs/pipeline.yaml`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to application config file")
	pf.StringVarP(&flags.PipelineFile, "pipeline", "p", "", "Path to pipeline config file (model, instructions, topics)")
	pf.StringVar(&flags.Region, "region", "", "AWS region for Bedrock and other AWS services")
	pf.StringVar(&flags.OpenAIAPIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "API key for OpenAI models")
	pf.StringVar(&flags.GeminiAPIKey, "gemini-api-key", os.Getenv("GEMINI_API_KEY"), "API key for Gemini models")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	classifyCmd.Flags().IntVar(&flags.BatchSize, "batch-size", 0, "Emails per model call (default from config)")
	classifyCmd.Flags().IntVar(&flags.MaxBodySize, "max-body-size", 0, "Maximum email body size sent to the model (0 = unlimited)")
	classifyCmd.Flags().StringVar(&flags.ExtractionFailure, "on-extraction-failure", "", "abort or skip emails that cannot be parsed")
	classifyCmd.Flags().BoolVar(&flags.Publish, "publish", false, "Publish complaints to the configured topics")

	rootCmd.AddCommand(classifyCmd, checkConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
