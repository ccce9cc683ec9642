package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerStagesResource(srv, svc)
	registerStageTemplate(srv, svc)
	registerItemTemplate(srv, svc)
}

func registerStagesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"standup://stages",
		"Stages",
		mcp.WithResourceDescription("All board stages with item counts and WIP limits."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListStages(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"stages": summaries,
			"count":  len(summaries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerStageTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"standup://stages/{name}",
		"Stage Items",
		mcp.WithTemplateDescription("Items that live in a stage, in board order."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, _ := request.Params.Arguments["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("stage name is required")
		}

		items, err := svc.ListItems(ctx, name)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"stage": name,
			"count": len(items),
			"items": items,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerItemTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"standup://items/{id}",
		"Item Details",
		mcp.WithTemplateDescription("Detailed information about a single item."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("item id is required")
		}

		dto, err := svc.ItemByID(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"item": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
