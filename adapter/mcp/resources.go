package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources exposes stored projects as read-only JSON.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("tskprio://projects").
		Name("Projects").
		Description("Every project with its task count").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListProjectsHandler == nil {
				return nil, errNoDatabase
			}

			projects, err := app.ListProjectsHandler.Handle(ctx)
			if err != nil {
				return nil, err
			}

			data, err := json.MarshalIndent(projects, "", "  ")
			if err != nil {
				return nil, err
			}

			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})

	return nil
}
