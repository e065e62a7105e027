package platform

import (
	"github.com/aretw0/pressroom/internal/config"
	"github.com/aretw0/pressroom/pkg/adapters/dryrun"
	"github.com/aretw0/pressroom/pkg/core"
	"github.com/aretw0/pressroom/pkg/publish"
)

// Engine bundles the lifecycle manager and the publish coordinator that share
// one repository.
type Engine struct {
	Service     *core.Service
	Coordinator *publish.Coordinator
	Config      config.Config
}

// New wires the repository, the lifecycle service and the publish coordinator.
//
//	eng, err := pressroom.New("./content", pressroom.WithLogger(logger))
func New(root string, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(root, o)
	if err != nil {
		return nil, err
	}
	log := logger(o)

	svcOpts := []core.ServiceOption{core.WithServiceLogger(log)}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}
	if o.config.Status.Strict {
		svcOpts = append(svcOpts, core.WithStatusValidator(core.StrictStatus))
	}
	service := core.NewService(repo, svcOpts...)

	publisher := o.publisher
	if publisher == nil {
		publisher = dryrun.New(log, o.config.Publish.DryRunPlatforms...)
	}

	coordinator := publish.New(service, publisher,
		publish.WithLogger(log),
		publish.WithConcurrency(o.config.Publish.Concurrency),
		publish.WithTimeout(o.config.Timeout()),
		publish.WithImageExtensions(o.config.Publish.ImageExtensions),
		publish.WithAnnotation(o.config.Publish.Annotate),
	)

	return &Engine{
		Service:     service,
		Coordinator: coordinator,
		Config:      o.config,
	}, nil
}
