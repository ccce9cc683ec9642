package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateItemTool(srv, svc)
	registerMoveItemTool(srv, svc)
	registerUpdateTitleTool(srv, svc)
	registerUpdateKindTool(srv, svc)
	registerUpdateFlagTool(srv, svc)
	registerUpdateNotesTool(srv, svc)
	registerDeleteItemTool(srv, svc)
	registerListItemsTool(srv, svc)
	registerListStagesTool(srv, svc)
	registerSearchItemsTool(srv, svc)
	registerGetItemTool(srv, svc)
	registerCreateStageTool(srv, svc)
	registerSetStageLimitTool(srv, svc)
	registerRenameStageTool(srv, svc)
	registerRemoveStageTool(srv, svc)
	registerReportTool(srv, svc)
	registerStaleItemsTool(srv, svc)
}

func registerCreateItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_item",
		mcp.WithDescription("Create a new item at the end of a stage."),
		mcp.WithString("stage",
			mcp.Required(),
			mcp.Description("Stage that should hold the new item."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title for the item."),
		),
		mcp.WithString("kind",
			mcp.Description("Work kind: task, bug, chore, or spike."),
			mcp.Enum("task", "bug", "chore", "spike"),
		),
		mcp.WithString("flag",
			mcp.Description("Optional flag: priority (✷), blocked (!), question (?), or none."),
			mcp.Enum("none", "priority", "blocked", "question"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-form notes."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Stage string `json:"stage"`
			Title string `json:"title"`
			Kind  string `json:"kind"`
			Flag  string `json:"flag"`
			Notes string `json:"notes"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		kind, err := ParseKind(args.Kind, glyph.Task)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		flag, err := ParseFlag(args.Flag, glyph.None)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.AddItem(ctx, AddItemOptions{
			Stage: args.Stage,
			Title: args.Title,
			Kind:  kind,
			Flag:  flag,
			Notes: args.Notes,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return toJSONResult(dto)
	})
}

func registerMoveItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_item",
		mcp.WithDescription("Move an item to the end of a different stage."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier (or unique prefix) to move."),
		),
		mcp.WithString("stage",
			mcp.Required(),
			mcp.Description("Destination stage. Created when it does not exist yet."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target := request.GetString("stage", "")
		if target == "" {
			return mcp.NewToolResultError("stage is required"), nil
		}

		dto, err := svc.MoveItem(ctx, id, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateTitleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_title",
		mcp.WithDescription("Replace the title of an item."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to modify."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("New title text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.UpdateTitle(ctx, id, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateKindTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_kind",
		mcp.WithDescription("Change the work kind of an item."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to modify."),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("New kind value."),
			mcp.Enum("task", "bug", "chore", "spike"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kindRaw, err := request.RequireString("kind")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		kind, err := ParseKind(kindRaw, glyph.Task)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.UpdateKind(ctx, id, kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateFlagTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_flag",
		mcp.WithDescription("Set or clear the flag on an item."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to modify."),
		),
		mcp.WithString("flag",
			mcp.Required(),
			mcp.Description("New flag value. Use none to clear."),
			mcp.Enum("none", "priority", "blocked", "question"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		flagRaw, err := request.RequireString("flag")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		flag, err := ParseFlag(flagRaw, glyph.None)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.UpdateFlag(ctx, id, flag)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateNotesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_notes",
		mcp.WithDescription("Replace the notes body of an item."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to modify."),
		),
		mcp.WithString("notes",
			mcp.Required(),
			mcp.Description("New notes text. An empty string clears the notes."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		notes := request.GetString("notes", "")

		dto, err := svc.UpdateNotes(ctx, id, notes)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_item",
		mcp.WithDescription("Delete an item from the board."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.DeleteItem(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": dto,
		})
	})
}

func registerListItemsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_items",
		mcp.WithDescription("List items for one stage or the whole board."),
		mcp.WithString("stage",
			mcp.Description("Optional stage filter."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stageName := strings.TrimSpace(request.GetString("stage", ""))
		var (
			results []ItemDTO
			err     error
		)
		if stageName == "" {
			results, err = svc.ListAllItems(ctx)
		} else {
			results, err = svc.ListItems(ctx, stageName)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"stage": stageName,
			"items": results,
			"count": len(results),
		})
	})
}

func registerListStagesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_stages",
		mcp.WithDescription("List board stages with item counts and WIP limits."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := svc.ListStages(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"stages": summaries,
			"count":  len(summaries),
		})
	})
}

func registerSearchItemsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_items",
		mcp.WithDescription("Search items by substring match across titles, notes, and stage names."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchItems(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_item",
		mcp.WithDescription("Fetch a single item by identifier or unique prefix."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ItemByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCreateStageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_stage",
		mcp.WithDescription("Add a new empty stage to the end of the board."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Stage name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.CreateStage(ctx, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return stagesResult(ctx, svc)
	})
}

func registerSetStageLimitTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_stage_limit",
		mcp.WithDescription("Set the advisory WIP limit for a stage. Limits never block moves."),
		mcp.WithString("stage",
			mcp.Required(),
			mcp.Description("Stage to limit."),
		),
		mcp.WithNumber("limit",
			mcp.Required(),
			mcp.Description("Maximum item count before the stage shows as over limit. Zero clears the limit."),
			mcp.Min(0),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stageName, err := request.RequireString("stage")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 0)

		if err := svc.SetStageLimit(ctx, stageName, limit); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return stagesResult(ctx, svc)
	})
}

func registerRenameStageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rename_stage",
		mcp.WithDescription("Rename a stage, carrying its items along."),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Current stage name."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("New stage name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from, err := request.RequireString("from")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		to, err := request.RequireString("to")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.RenameStage(ctx, from, to); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return stagesResult(ctx, svc)
	})
}

func registerRemoveStageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"remove_stage",
		mcp.WithDescription("Remove an empty stage from the board. Stages holding items are refused."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Stage to remove."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.RemoveStage(ctx, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return stagesResult(ctx, svc)
	})
}

func registerReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"report",
		mcp.WithDescription("Summarize which items entered which stage during a recent window. Useful for standup notes."),
		mcp.WithString("window",
			mcp.Description("Lookback window such as 1d, 3d, or 1w (default 1d)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := request.GetString("window", "1d")
		window, label, err := timeutil.ParseWindow(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
		}

		dto, err := svc.Report(ctx, window)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"window": label,
			"report": dto,
		})
	})
}

func registerStaleItemsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"stale_items",
		mcp.WithDescription("List items that have sat in their stage longer than the window, oldest first."),
		mcp.WithString("window",
			mcp.Description("Age threshold such as 3d or 1w (default 1w)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := request.GetString("window", timeutil.DefaultWindow)
		window, label, err := timeutil.ParseWindow(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
		}

		results, err := svc.StaleItems(ctx, window)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"window": label,
			"items":  results,
			"count":  len(results),
		})
	})
}

func stagesResult(ctx context.Context, svc *Service) (*mcp.CallToolResult, error) {
	summaries, err := svc.ListStages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{
		"stages": summaries,
		"count":  len(summaries),
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
