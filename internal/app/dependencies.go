package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/workload/internal/config"
	"github.com/klokku/workload/internal/event_bus"
	"github.com/klokku/workload/internal/utils"
	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/settings"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	"github.com/klokku/workload/pkg/visibility"
	"github.com/klokku/workload/pkg/workload"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	Authorization project.Authorization
	TaskRepo      task.Repository

	Settings            settings.Provider
	unsubscribeSettings func()

	VisibilityResolver *visibility.Resolver

	WorkloadService *workload.ServiceImpl
	CsvRenderer     *workload.CsvRendererImpl
	WorkloadHandler *workload.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, bus *event_bus.EventBus, cfg config.Application) (*Dependencies, error) {
	provider, err := settings.NewConfigProvider(cfg.Workload)
	if err != nil {
		return nil, err
	}
	deps := wire(user.NewUserRepo(db), project.NewAuthorization(db), task.NewRepository(db), provider, &utils.SystemClock{})
	deps.unsubscribeSettings = provider.Subscribe(bus)
	return deps, nil
}

func wire(userRepo user.Repo, auth project.Authorization, tasks task.Repository, provider settings.Provider, clock utils.Clock) *Dependencies {
	deps := &Dependencies{}

	deps.UserService = user.NewUserService(userRepo)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.Authorization = auth
	deps.TaskRepo = tasks
	deps.Settings = provider
	deps.Clock = clock

	deps.VisibilityResolver = visibility.NewResolver(deps.UserService, deps.Authorization)

	deps.WorkloadService = workload.NewService(deps.TaskRepo, deps.VisibilityResolver, deps.Settings, deps.Clock)
	deps.CsvRenderer = workload.NewCsvRenderer()
	deps.WorkloadHandler = workload.NewHandler(deps.WorkloadService, deps.CsvRenderer)

	return deps
}

func (d *Dependencies) Close() {
	if d.unsubscribeSettings != nil {
		d.unsubscribeSettings()
	}
}
