// The example host loads answer plugins and creates instances through
// the class loader. With MODULE_PATHS or MODULE_DIR set it loads real
// plugin files; without configuration it falls back to a plugin compiled
// into the binary, so it runs anywhere.
package main

import (
	"fmt"

	"github.com/modulepp/module.go/lib/log"
	"github.com/modulepp/module.go/lib/module"
	"github.com/modulepp/module.go/lib/sharedlib"

	"module_example/answer"
)

var logger = log.Get()

func main() {
	cfg, err := module.ConfigFromEnv()
	if err != nil {
		logger.Fatalf("failed to read configuration: %v", err)
	}

	opts := cfg.Options()
	if len(cfg.Paths) == 0 && cfg.Dir == "" {
		logger.Info("no plugin files configured, using the embedded plugin")
		opts.Backend = embeddedBackend()
		cfg.Paths = []string{"embedded/answer"}
	}

	loader := module.New(answer.Capability, opts)
	defer loader.Close()

	loaded, err := loader.Preload(cfg)
	if err != nil {
		logger.Fatalf("failed to load plugins: %v", err)
	}
	if len(loaded) == 0 {
		logger.Fatal("no plugins found")
	}
	for _, lib := range loader.Enumerate() {
		logger.Infof("loaded %s providing %v", lib.Path, lib.Registry.Classes())
	}

	instance, err := module.Create[answer.Answerer](loader, "answer")
	if err != nil {
		logger.Fatalf("failed to create an answerer: %v", err)
	}
	fmt.Println("the answer is", instance.Value())

	// A leased instance pins its library: the final unload is refused
	// until the lease is released.
	leased, lease, err := module.CreateLeased[answer.Answerer](loader, "answer")
	if err != nil {
		logger.Fatalf("failed to lease an answerer: %v", err)
	}
	if err := loader.Unload(loaded[0]); err != nil {
		logger.Infof("unload refused while leased: %v", err)
	}
	fmt.Println("the leased answer is", leased.Value())
	lease.Release()

	if err := loader.Unload(loaded[0]); err != nil {
		logger.Fatalf("failed to unload: %v", err)
	}
	logger.Info("all plugins unloaded")
}

// embeddedBackend serves the answer plugin from an in-memory symbol
// table, mirroring what a built plugin file would export.
func embeddedBackend() sharedlib.Backend {
	backend := sharedlib.NewStaticBackend()
	backend.Add("embedded/answer", map[string]sharedlib.Symbol{
		module.SymbolBuild: func(r *module.Registry) error {
			b, err := module.Bind[answer.Answerer](r, answer.Capability)
			if err != nil {
				return err
			}
			return b.Register("answer", func() answer.Answerer { return embeddedAnswerer{} })
		},
		module.SymbolInitialize: func() {
			logger.Debug("embedded answer plugin initialized")
		},
		module.SymbolUninitialize: func() {
			logger.Debug("embedded answer plugin uninitialized")
		},
	})
	return backend
}

type embeddedAnswerer struct{}

func (embeddedAnswerer) Value() int { return 42 }
