package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/activitylog"
	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/di"
	"github.com/mikey/llm-email-categorizer/internal/factory"
	"github.com/mikey/llm-email-categorizer/internal/ports"
)

// localBucket names the in-memory bucket CLI emails are loaded into
const localBucket = "local"

var classifyCmd = &cobra.Command{
	Use:   "classify <file.eml>...",
	Short: "Classify raw email files and print the resulting complaints",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Load the pipeline configuration and print the resolved model family",
	Args:  cobra.NoArgs,
	RunE:  runCheckConfig,
}

func runClassify(cmd *cobra.Command, args []string) error {
	container, err := di.BuildCLIContainer(&flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(
		logger *zap.Logger,
		runner ports.InvocationRunner,
		store *objects.MemoryStore,
		activity *activitylog.MemoryLog,
		models *factory.ModelFactory,
	) error {
		defer logger.Sync()
		defer models.Close()

		ctx := cmd.Context()
		refs, err := loadFiles(store, uuid.NewString(), args)
		if err != nil {
			return err
		}

		start := time.Now()
		report, err := runner.Process(ctx, refs)
		if report != nil {
			printReport(cmd.OutOrStdout(), report, time.Since(start))
		}
		printComplaints(cmd.OutOrStdout(), activity.List())
		return err
	})
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	container, err := di.BuildCLIContainer(&flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(configs core.ConfigProvider, backends core.Backends) error {
		cfg, err := configs.GetConfig(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := backends.Lookup(cfg.Family); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Model: %s\n", cfg.ModelID)
		fmt.Fprintf(out, "Family: %s\n", cfg.Family)
		fmt.Fprintf(out, "Temperature: %.2f\n", cfg.Temperature)
		for _, t := range cfg.CategoryTopics {
			fmt.Fprintf(out, "Topic: %s -> %s\n", t.Category, t.TopicRef)
		}
		return nil
	})
}

// loadFiles puts each file into the store under <invocationID>/<basename>, so
// the base name becomes the message id
func loadFiles(store *objects.MemoryStore, invocationID string, paths []string) ([]core.ObjectRef, error) {
	refs := make([]core.ObjectRef, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		ref := core.ObjectRef{
			Bucket: localBucket,
			Key:    invocationID + "/" + filepath.Base(path),
		}
		store.Put(ref, data)
		refs = append(refs, ref)
	}
	return refs, nil
}

func printReport(w io.Writer, report *core.InvocationReport, elapsed time.Duration) {
	fmt.Fprintf(w, "\n=== Invocation ===\n")
	fmt.Fprintf(w, "Records: %d (skipped %d)\n", report.Records, report.Skipped)
	fmt.Fprintf(w, "Batches: %d (degraded %d)\n", report.Batches, report.DegradedBatches)
	fmt.Fprintf(w, "Dispatched: %d\n", report.Dispatched)
	fmt.Fprintf(w, "Processing time: %v\n", elapsed.Round(time.Millisecond))
}

func printComplaints(w io.Writer, complaints []*core.Complaint) {
	for _, c := range complaints {
		fmt.Fprintf(w, "\n=== %s ===\n", c.MessageID)
		fmt.Fprintf(w, "From: %s\n", c.SenderAddress)
		fmt.Fprintf(w, "Category: %s\n", c.Category)
		fmt.Fprintf(w, "Urgency: %s\n", c.Urgency)
		fmt.Fprintf(w, "Summary: %s\n", c.Summary)
	}
}
