package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/roster/internal/view"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	studentsURI = "roster://students"
	guideURI    = "roster://guide"
)

const guideContent = `# Roster guide

- The list starts with one page of students ordered by id.
- New students appear at the top; edits keep their position.
- Call load_more_students when you reach the end of the loaded rows.
- Offsets are approximate after local adds and deletes; refresh_students
  reloads from the first page.
- Deletes require confirm=true. An empty name cancels an edit.
`

// studentsDocument is the JSON body of the students resource.
type studentsDocument struct {
	Items        []view.Item `json:"items"`
	LoadedCount  int         `json:"loaded_count"`
	HasMore      bool        `json:"has_more"`
	LatestStatus string      `json:"latest_status"`
}

func registerResources(server *sdkmcp.Server, ctrl ViewController) {
	server.AddResource(&sdkmcp.Resource{
		URI:         guideURI,
		Name:        "guide",
		Title:       "Roster guide",
		Description: "How the student list pages and updates",
		MIMEType:    "text/markdown",
		Size:        int64(len(guideContent)),
	}, func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      guideURI,
				MIMEType: "text/markdown",
				Text:     guideContent,
			}},
		}, nil
	})

	server.AddResource(&sdkmcp.Resource{
		URI:         studentsURI,
		Name:        "students",
		Title:       "Loaded students",
		Description: "The student list as currently loaded",
		MIMEType:    "application/json",
	}, studentsResourceHandler(ctrl))
}

func studentsResourceHandler(ctrl ViewController) sdkmcp.ResourceHandler {
	return func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		data, err := json.Marshal(studentsDocument{
			Items:        ctrl.Items(),
			LoadedCount:  ctrl.LoadedCount(),
			HasMore:      ctrl.HasMore(),
			LatestStatus: ctrl.Status(),
		})
		if err != nil {
			return nil, fmt.Errorf("encode students: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      studentsURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
