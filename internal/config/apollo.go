package config

import (
	agollo "github.com/apolloconfig/agollo/v4"
	apconf "github.com/apolloconfig/agollo/v4/env/config"
	"github.com/apolloconfig/agollo/v4/storage"
	"go.uber.org/zap"
)

// valueSource is the subset of *storage.Config used for overrides.
type valueSource interface {
	GetStringValue(key string, defaultValue string) string
}

// overrideFromApollo starts Apollo client and overrides config values if present.
// Returns a closer to stop the Apollo client.
func overrideFromApollo(cfg *Config, store *Store) (func(), error) {
	if cfg.Apollo.Addrs == "" || cfg.Apollo.AppID == "" {
		configLogger.Warn("apollo: missing APOLLO_ADDRS or APOLLO_APP_ID; skip")
		return nil, nil
	}

	ns := cfg.Apollo.Namespace
	if ns == "" {
		ns = "application"
	}

	appCfg := &apconf.AppConfig{
		AppID:         cfg.Apollo.AppID,
		Cluster:       cfg.Apollo.Cluster,
		NamespaceName: ns,
		IP:            cfg.Apollo.Addrs,
		Secret:        cfg.Apollo.AccessKey,
	}

	client, err := agollo.StartWithConfig(func() (*apconf.AppConfig, error) { return appCfg, nil })
	if err != nil {
		return nil, err
	}

	next := cloneConfig(cfg)
	if src := client.GetConfig(ns); src != nil {
		changed := applyOverrides(src, next)
		changed["apollo.init"] = true
		if err := store.UpdateValidated(next, changed); err != nil {
			configLogger.Warn("apollo initial config rejected", zap.Error(err))
		}
	}

	client.AddChangeListener(&changeListener{ns: ns, client: client, store: store})

	// agollo exposes no stop hook for the polling goroutine.
	closer := func() {}
	return closer, nil
}

// applyOverrides copies recognised keys from src into cfg and reports which
// of them actually changed.
func applyOverrides(src valueSource, cfg *Config) map[string]bool {
	changed := map[string]bool{}
	set := func(key string, dst *string) {
		if v := src.GetStringValue(key, ""); v != "" && v != *dst {
			*dst = v
			changed[key] = true
		}
	}
	set("app.env", &cfg.AppEnv)
	set("log.level", &cfg.Log.Level)
	set("log.format", &cfg.Log.Format)
	return changed
}

type changeListener struct {
	ns     string
	client agollo.Client
	store  *Store
}

func (l *changeListener) OnChange(e *storage.ChangeEvent) {
	configLogger.Info("apollo change",
		zap.String("namespace", e.Namespace),
		zap.Int("changes", len(e.Changes)),
	)
	if e.Namespace != l.ns {
		return
	}
	src := l.client.GetConfig(l.ns)
	if src == nil {
		return
	}
	next := cloneConfig(l.store.Get())
	changed := applyOverrides(src, next)
	if len(changed) == 0 {
		return
	}
	if err := l.store.UpdateValidated(next, changed); err != nil {
		configLogger.Warn("apollo change rejected", zap.Error(err))
	}
}

func (l *changeListener) OnNewestChange(*storage.FullChangeEvent) {}
