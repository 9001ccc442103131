package mcp

import (
	"context"
	"log/slog"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/view"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ViewController defines the paginated view operations exposed as tools.
type ViewController interface {
	AddItem(ctx context.Context, name string) student.Result[view.Item]
	EditItem(ctx context.Context, id int64, newName string) student.Result[view.Item]
	DeleteItem(ctx context.Context, id int64) student.Result[bool]
	RefreshAll(ctx context.Context) student.Result[int]
	OnThresholdReached(ctx context.Context) student.Result[int]
	Items() []view.Item
	LoadedCount() int
	HasMore() bool
	Status() string
}

// SectionReader reads pages straight from the store.
type SectionReader interface {
	GetSection(ctx context.Context, offset, limit int) student.Result[[]student.Student]
}

// Config contains server configuration.
type Config struct {
	Controller ViewController
	Sections   SectionReader
	Logger     *slog.Logger
}

const serverInstructions = `Roster manages a list of students (id + name).

Use list_students to read the current view, load_more_students when you need
more rows, and refresh_students to reload from the first page. add_student,
edit_student and delete_student change the store and update the view in place.
Mutating tools return the status line of that call; show it to the user as is.`

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "roster",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerResources(server, cfg.Controller)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Controller, cfg.Sections)

	return server
}
