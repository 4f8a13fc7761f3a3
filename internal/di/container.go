package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/factory"
	"github.com/mikey/llm-email-categorizer/internal/logging"
	"github.com/mikey/llm-email-categorizer/internal/ports"
)

// BuildContainer creates the container for the SMTP intake server. Received
// messages are spooled into an in-process object store.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register activity log
	if err := container.Provide(func(f *factory.ActivityLogFactory) (core.ActivityLogger, error) {
		return f.CreateActivityLogger(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register spool store, which also serves as the object fetcher
	if err := container.Provide(func(f *factory.ObjectsFactory) *objects.MemoryStore {
		return f.CreateMemoryStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(store *objects.MemoryStore) core.ObjectFetcher {
		return store
	}); err != nil {
		return nil, err
	}

	// Register email intake
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.EmailIntake, error) {
		return f.CreateEmailIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// BuildLambdaContainer creates the container for the S3 event handler
func BuildLambdaContainer() (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(config.New); err != nil {
		return nil, err
	}
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	if err := container.Provide(func(f *factory.ActivityLogFactory) (core.ActivityLogger, error) {
		return f.CreateActivityLogger(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register S3 object fetcher
	if err := container.Provide(func(f *factory.ObjectsFactory) (core.ObjectFetcher, error) {
		return f.CreateS3Fetcher(context.Background())
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// providePipeline registers the factories and the pipeline. Callers provide
// *config.Config, *zap.Logger, core.ActivityLogger and core.ObjectFetcher.
func providePipeline(container *dig.Container) error {
	// Register factories
	for _, ctor := range []interface{}{
		factory.NewAWSFactory,
		factory.NewModelFactory,
		factory.NewConfigStoreFactory,
		factory.NewActivityLogFactory,
		factory.NewNotifyFactory,
		factory.NewMailerFactory,
		factory.NewExtractorFactory,
		factory.NewObjectsFactory,
	} {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	// Register model backends and classifier
	if err := container.Provide(func(f *factory.ModelFactory) (core.Backends, error) {
		return f.CreateBackends(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ModelFactory, backends core.Backends) core.BatchClassifier {
		return f.CreateClassifier(backends)
	}); err != nil {
		return err
	}

	// Register pipeline configuration provider
	if err := container.Provide(func(f *factory.ConfigStoreFactory) (core.ConfigProvider, error) {
		return f.CreateConfigProvider(context.Background())
	}); err != nil {
		return err
	}

	// Register content extractor
	if err := container.Provide(func(f *factory.ExtractorFactory) core.ContentExtractor {
		return f.CreateExtractor()
	}); err != nil {
		return err
	}

	// Register notifier and metrics
	if err := container.Provide(func(f *factory.NotifyFactory, logger *zap.Logger) (*core.Notifier, error) {
		publisher, err := f.CreatePublisher(context.Background())
		if err != nil {
			return nil, err
		}
		return core.NewNotifier(publisher, logger), nil
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.NotifyFactory) (core.Metrics, error) {
		return f.CreateMetrics(context.Background())
	}); err != nil {
		return err
	}

	// Register acknowledgement mailer, nil when disabled
	if err := container.Provide(func(f *factory.MailerFactory) (core.Mailer, error) {
		return f.CreateMailer(context.Background())
	}); err != nil {
		return err
	}

	// Register pipeline settings
	if err := container.Provide(func(cfg *config.Config) (core.PipelineSettings, error) {
		return cfg.GetOrchestration()
	}); err != nil {
		return err
	}

	// Register pipeline
	if err := container.Provide(core.NewPipeline); err != nil {
		return err
	}
	return container.Provide(func(p *core.Pipeline) ports.InvocationRunner {
		return p
	})
}
