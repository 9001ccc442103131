package mcp

import (
	"context"
	"strings"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/view"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultListLimit caps list_students and get_section when no limit is given.
const defaultListLimit = 50

type AddStudentInput struct {
	Name string `json:"name" jsonschema:"student display name, at most 250 characters"`
}

type EditStudentInput struct {
	ID   int64  `json:"id" jsonschema:"student id"`
	Name string `json:"name,omitempty" jsonschema:"confirmed new name; empty cancels the edit"`
}

type DeleteStudentInput struct {
	ID      int64 `json:"id" jsonschema:"student id"`
	Confirm bool  `json:"confirm" jsonschema:"must be true to delete; false cancels"`
}

type PageInput struct {
	Offset int `json:"offset,omitempty" jsonschema:"number of items to skip"`
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of items (default 50)"`
}

type NoInput struct{}

// ItemResult reports an add or edit. Status and Kind come from this call.
type ItemResult struct {
	OK        bool       `json:"ok"`
	Cancelled bool       `json:"cancelled,omitempty"`
	Item      *view.Item `json:"item,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Status    string     `json:"status,omitempty"`
}

// DeleteResult reports a delete.
type DeleteResult struct {
	OK        bool   `json:"ok"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Status    string `json:"status,omitempty"`
}

// PageResult reports a page load. Skipped is set when no fetch ran because
// another load was in flight or the store is exhausted.
type PageResult struct {
	Fetched     int    `json:"fetched"`
	Skipped     bool   `json:"skipped,omitempty"`
	Count       int    `json:"count"`
	LoadedCount int    `json:"loaded_count"`
	HasMore     bool   `json:"has_more"`
	Kind        string `json:"kind,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ListResult is a window over the current view. LatestStatus is the last
// status line the view showed, whichever caller caused it.
type ListResult struct {
	Items        []view.Item `json:"items"`
	Total        int         `json:"total"`
	LoadedCount  int         `json:"loaded_count"`
	HasMore      bool        `json:"has_more"`
	LatestStatus string      `json:"latest_status"`
}

// SectionResult is a page read directly from the store.
type SectionResult struct {
	Students []student.Student `json:"students"`
	Kind     string            `json:"kind"`
	Status   string            `json:"status"`
}

func registerTools(server *sdkmcp.Server, ctrl ViewController, sections SectionReader) {
	sdkmcp.AddTool(server, AddStudentTool(), AddStudentHandler(ctrl))
	sdkmcp.AddTool(server, EditStudentTool(), EditStudentHandler(ctrl))
	sdkmcp.AddTool(server, DeleteStudentTool(), DeleteStudentHandler(ctrl))
	sdkmcp.AddTool(server, RefreshStudentsTool(), RefreshStudentsHandler(ctrl))
	sdkmcp.AddTool(server, LoadMoreStudentsTool(), LoadMoreStudentsHandler(ctrl))
	sdkmcp.AddTool(server, ListStudentsTool(), ListStudentsHandler(ctrl))
	if sections != nil {
		sdkmcp.AddTool(server, GetSectionTool(), GetSectionHandler(sections))
	}
}

func AddStudentTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "add_student",
		Description: "Adds a student and shows it at the top of the list",
	}
}

func AddStudentHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[AddStudentInput, ItemResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input AddStudentInput) (*sdkmcp.CallToolResult, ItemResult, error) {
		return nil, itemResult(ctrl.AddItem(ctx, input.Name)), nil
	}
}

func EditStudentTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "edit_student",
		Description: "Renames a student in place",
	}
}

func EditStudentHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[EditStudentInput, ItemResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input EditStudentInput) (*sdkmcp.CallToolResult, ItemResult, error) {
		if err := validateID(input.ID); err != nil {
			return nil, ItemResult{}, err
		}
		if strings.TrimSpace(input.Name) == "" {
			return nil, ItemResult{Cancelled: true}, nil
		}
		return nil, itemResult(ctrl.EditItem(ctx, input.ID, input.Name)), nil
	}
}

func DeleteStudentTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "delete_student",
		Description: "Deletes a student after explicit confirmation",
	}
}

func DeleteStudentHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[DeleteStudentInput, DeleteResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DeleteStudentInput) (*sdkmcp.CallToolResult, DeleteResult, error) {
		if err := validateID(input.ID); err != nil {
			return nil, DeleteResult{}, err
		}
		if !input.Confirm {
			return nil, DeleteResult{Cancelled: true}, nil
		}
		res := ctrl.DeleteItem(ctx, input.ID)
		return nil, DeleteResult{OK: res.Value, Kind: res.Kind.String(), Status: res.Message}, nil
	}
}

func RefreshStudentsTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "refresh_students",
		Description: "Clears the list and reloads the first page",
	}
}

func RefreshStudentsHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[NoInput, PageResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoInput) (*sdkmcp.CallToolResult, PageResult, error) {
		return nil, pageResult(ctrl, ctrl.RefreshAll(ctx)), nil
	}
}

func LoadMoreStudentsTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "load_more_students",
		Description: "Loads the next page into the list",
	}
}

func LoadMoreStudentsHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[NoInput, PageResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoInput) (*sdkmcp.CallToolResult, PageResult, error) {
		return nil, pageResult(ctrl, ctrl.OnThresholdReached(ctx)), nil
	}
}

func ListStudentsTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "list_students",
		Description: "Returns a window of the list as currently loaded",
	}
}

func ListStudentsHandler(ctrl ViewController) sdkmcp.ToolHandlerFor[PageInput, ListResult] {
	return func(_ context.Context, _ *sdkmcp.CallToolRequest, input PageInput) (*sdkmcp.CallToolResult, ListResult, error) {
		if err := validatePage(input.Offset, input.Limit); err != nil {
			return nil, ListResult{}, err
		}
		limit := input.Limit
		if limit == 0 {
			limit = defaultListLimit
		}

		items := ctrl.Items()
		start := min(input.Offset, len(items))
		end := min(start+limit, len(items))

		return nil, ListResult{
			Items:        items[start:end],
			Total:        len(items),
			LoadedCount:  ctrl.LoadedCount(),
			HasMore:      ctrl.HasMore(),
			LatestStatus: ctrl.Status(),
		}, nil
	}
}

func GetSectionTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "get_section",
		Description: "Reads students ordered by id directly from the store, bypassing the list",
	}
}

func GetSectionHandler(sections SectionReader) sdkmcp.ToolHandlerFor[PageInput, SectionResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input PageInput) (*sdkmcp.CallToolResult, SectionResult, error) {
		if err := validatePage(input.Offset, input.Limit); err != nil {
			return nil, SectionResult{}, err
		}
		limit := input.Limit
		if limit == 0 {
			limit = defaultListLimit
		}

		res := sections.GetSection(ctx, input.Offset, limit)
		return nil, SectionResult{
			Students: res.Value,
			Kind:     res.Kind.String(),
			Status:   res.Message,
		}, nil
	}
}

func itemResult(res student.Result[view.Item]) ItemResult {
	result := ItemResult{OK: res.OK(), Kind: res.Kind.String(), Status: res.Message}
	if res.OK() {
		result.Item = &res.Value
	}
	return result
}

// pageResult pairs a load's own outcome with the view state after it.
func pageResult(ctrl ViewController, res student.Result[int]) PageResult {
	result := PageResult{
		Fetched:     res.Value,
		Count:       len(ctrl.Items()),
		LoadedCount: ctrl.LoadedCount(),
		HasMore:     ctrl.HasMore(),
	}
	if res.Message == "" {
		result.Skipped = true
		return result
	}
	result.Kind = res.Kind.String()
	result.Status = res.Message
	return result
}
