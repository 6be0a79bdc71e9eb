package cli

import (
	"interunit-recon-backend/internal/domain/bankdir"
	"interunit-recon-backend/internal/domain/matcher"
	"interunit-recon-backend/internal/infrastructure/config"
)

// NewBankDirectory builds the bank directory, layering configured
// overrides on top of the built-in bank list.
func NewBankDirectory(cfg *config.Config) *bankdir.Directory {
	if len(cfg.Banks) == 0 {
		return bankdir.New()
	}
	return bankdir.NewWithOverrides(cfg.Banks)
}

// NewMatchEngine builds the matching engine from configuration.
func NewMatchEngine(cfg *config.Config, banks *bankdir.Directory) *matcher.Engine {
	engineCfg := matcher.DefaultConfig()
	if cfg.Matching.SalaryThreshold > 0 {
		engineCfg.SalaryThreshold = cfg.Matching.SalaryThreshold
	}
	return matcher.NewEngineWithConfig(banks, engineCfg)
}
