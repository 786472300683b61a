package cli

import (
	"context"
	"errors"

	internalApp "github.com/felixgeelhaar/tskprio/internal/app"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
)

// ErrNotInitialized is returned when a command runs without application wiring.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	// Command handlers
	CreateProjectHandler  *commands.CreateProjectHandler
	RenameProjectHandler  *commands.RenameProjectHandler
	DeleteProjectHandler  *commands.DeleteProjectHandler
	AddTaskHandler        *commands.AddTaskHandler
	UpdateTaskHandler     *commands.UpdateTaskHandler
	RemoveTaskHandler     *commands.RemoveTaskHandler
	ImportProjectsHandler *commands.ImportProjectsHandler

	// Query handlers
	ListProjectsHandler  *queries.ListProjectsHandler
	GetProjectHandler    *queries.GetProjectHandler
	GetMatrixHandler     *queries.GetMatrixHandler
	GetActionPlanHandler *queries.GetActionPlanHandler
}

// NewApp takes the handlers the CLI uses from the container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		CreateProjectHandler:  c.CreateProjectHandler,
		RenameProjectHandler:  c.RenameProjectHandler,
		DeleteProjectHandler:  c.DeleteProjectHandler,
		AddTaskHandler:        c.AddTaskHandler,
		UpdateTaskHandler:     c.UpdateTaskHandler,
		RemoveTaskHandler:     c.RemoveTaskHandler,
		ImportProjectsHandler: c.ImportProjectsHandler,
		ListProjectsHandler:   c.ListProjectsHandler,
		GetProjectHandler:     c.GetProjectHandler,
		GetMatrixHandler:      c.GetMatrixHandler,
		GetActionPlanHandler:  c.GetActionPlanHandler,
	}
}

// Bootstrap builds the App once flags are parsed. The returned func releases
// its resources when the CLI exits.
type Bootstrap func(ctx context.Context, configPath string) (*App, func(), error)

var (
	app       *App
	bootstrap Bootstrap
	closeApp  func()
)

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// SetBootstrap registers the lazy App constructor used by the root command.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// RequireApp returns the App or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
