package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/intake"
	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/ports"
	"github.com/mikey/llm-email-categorizer/internal/whitelist"
)

// IntakeFactory creates the SMTP intake server
type IntakeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	runner ports.InvocationRunner
	store  *objects.MemoryStore
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, runner ports.InvocationRunner, store *objects.MemoryStore) *IntakeFactory {
	return &IntakeFactory{
		cfg:    cfg,
		logger: logger,
		runner: runner,
		store:  store,
	}
}

// CreateEmailIntake creates an SMTP intake based on the configuration
func (f *IntakeFactory) CreateEmailIntake() (ports.EmailIntake, error) {
	intakeCfg := f.cfg.GetIntake()

	allowList := whitelist.NewChecker(intakeCfg.AllowedRecipients, f.logger)
	if !allowList.Empty() {
		f.logger.Info("Loaded allowed recipients", zap.Strings("recipients", intakeCfg.AllowedRecipients))
	}

	timeout, err := f.cfg.GetDuration("intake.process_timeout")
	if err != nil {
		return nil, err
	}

	return intake.NewSMTPIntake(
		f.runner,
		f.store,
		allowList,
		f.logger,
		intake.Options{
			ListenAddress:   intakeCfg.ListenAddress,
			Domain:          intakeCfg.Domain,
			Bucket:          intakeCfg.Bucket,
			MaxMessageBytes: intakeCfg.MaxMessageBytes,
			ProcessTimeout:  timeout,
		},
	), nil
}
