package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List every registered component, page, and workflow with its metadata"),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Get the full manifest record for one component by name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name, e.g. user-card"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search components by name or description substring (case-insensitive)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term"),
		),
	)
}

func listLayerTool() mcp.Tool {
	return mcp.NewTool("list_layer",
		mcp.WithDescription("List the components of one layer"),
		mcp.WithString("layer",
			mcp.Required(),
			mcp.Description("One of: component, page, workflow"),
		),
	)
}

func getTokensTool() mcp.Tool {
	return mcp.NewTool("get_tokens",
		mcp.WithDescription("List the design tokens declared in the main stylesheet"),
		mcp.WithString("category",
			mcp.Description("Optional category filter: color, spacing, typography, border, shadow, size, other"),
		),
	)
}

func registryStatsTool() mcp.Tool {
	return mcp.NewTool("registry_stats",
		mcp.WithDescription("Summary counts for the component registry"),
	)
}

func validateArchitectureTool() mcp.Tool {
	return mcp.NewTool("validate_architecture",
		mcp.WithDescription("Run the architecture validator: CSS single source of truth, markup rules, layer order"),
	)
}

func validateTokensTool() mcp.Tool {
	return mcp.NewTool("validate_tokens",
		mcp.WithDescription("Run the design-token validator: unknown references, unused tokens, hardcoded values, naming"),
	)
}
