package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/LLNL/bioimage-agent/internal/client"
)

// registerAllTools turns every toolDef into an mcp.Tool with a handler
// bound to the given commander.
func registerAllTools(s *server.MCPServer, c Commander) {
	for _, t := range allTools {
		s.AddTool(buildTool(t), buildHandler(t, c))
	}
}

// buildTool constructs the MCP tool schema from a declaration.
func buildTool(t toolDef) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Desc),
		mcp.WithReadOnlyHintAnnotation(t.ReadOnly),
		mcp.WithDestructiveHintAnnotation(!t.ReadOnly),
	}
	for _, p := range t.Params {
		opts = append(opts, paramOption(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

func paramOption(p paramDef) mcp.ToolOption {
	var propOpts []mcp.PropertyOption
	if p.Required {
		propOpts = append(propOpts, mcp.Required())
	}
	desc := p.Desc
	if p.Kind == paramLayerRef {
		desc += " Pass a layer name, an integer index (negative counts from the end), or omit for the active layer."
	}
	propOpts = append(propOpts, mcp.Description(desc))

	switch p.Kind {
	case paramNumber, paramInt:
		return mcp.WithNumber(p.Name, propOpts...)
	case paramBool:
		return mcp.WithBoolean(p.Name, propOpts...)
	case paramStrings:
		return mcp.WithArray(p.Name, append(propOpts, mcp.Items(map[string]any{"type": "string"}))...)
	case paramArray:
		return mcp.WithArray(p.Name, propOpts...)
	case paramObject:
		return mcp.WithObject(p.Name, propOpts...)
	default: // paramString, paramLayerRef
		return mcp.WithString(p.Name, propOpts...)
	}
}

// buildHandler maps the named MCP arguments onto the daemon command's
// positional argument list, in the order the params are declared.
func buildHandler(t toolDef, c Commander) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetArguments()
		args := make([]any, 0, len(t.Params))
		for _, p := range t.Params {
			v, present := raw[p.Name]
			if !present || v == nil {
				if p.Required {
					return mcp.NewToolResultError(fmt.Sprintf("missing required argument %q", p.Name)), nil
				}
				args = append(args, nil)
				continue
			}
			converted, err := convertParam(p, v)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			args = append(args, converted)
		}
		// Trailing omitted optionals are trimmed so the daemon applies its
		// own defaults; an omitted value in the middle stays as an explicit
		// null placeholder.
		for len(args) > 0 && args[len(args)-1] == nil {
			args = args[:len(args)-1]
		}

		payload, err := c.SendCommand(t.Command, args...)
		if err != nil {
			return mcp.NewToolResultError(renderError(err)), nil
		}
		return renderResult(t, payload)
	}
}

// convertParam checks the JSON value against the declared kind. Arrays and
// objects pass through untouched; the daemon validates their shape.
func convertParam(p paramDef, v any) (any, error) {
	switch p.Kind {
	case paramString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a string, got %T", p.Name, v)
		}
		return s, nil
	case paramNumber, paramInt:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a number, got %T", p.Name, v)
		}
		return f, nil
	case paramBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a boolean, got %T", p.Name, v)
		}
		return b, nil
	case paramStrings, paramArray:
		if _, ok := v.([]any); !ok {
			return nil, fmt.Errorf("argument %q must be an array, got %T", p.Name, v)
		}
		return v, nil
	case paramObject:
		if _, ok := v.(map[string]any); !ok {
			return nil, fmt.Errorf("argument %q must be an object, got %T", p.Name, v)
		}
		return v, nil
	case paramLayerRef:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a string, got %T", p.Name, v)
		}
		// Numeric strings address layers by index.
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return float64(n), nil
		}
		return s, nil
	default:
		return v, nil
	}
}

// renderResult formats a successful daemon reply for the MCP client.
func renderResult(t toolDef, payload any) (*mcp.CallToolResult, error) {
	if t.Result == resultImage {
		m, ok := payload.(map[string]any)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unexpected screenshot payload %T", payload)), nil
		}
		data, _ := m["image_base64"].(string)
		mime, _ := m["mime_type"].(string)
		if data == "" {
			return mcp.NewToolResultError("screenshot reply carries no image data"), nil
		}
		caption := fmt.Sprintf("screenshot %vx%v", m["width"], m["height"])
		return mcp.NewToolResultImage(caption, data, mime), nil
	}

	switch v := payload.(type) {
	case nil:
		return mcp.NewToolResultText("done"), nil
	case string:
		return mcp.NewToolResultText(v), nil
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("could not format result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

// renderError flattens a tagged daemon error into one readable block: the
// kind and message first, then the machine context, then the recovery hint.
func renderError(err error) string {
	var ce *client.Error
	if !errors.As(err, &ce) {
		return err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s error: %s", ce.Kind, ce.Message)
	if len(ce.Context) > 0 {
		if ctx, jsonErr := json.Marshal(ce.Context); jsonErr == nil {
			fmt.Fprintf(&b, "\ndetails: %s", ctx)
		}
	}
	if ce.Suggestion != "" {
		fmt.Fprintf(&b, "\nsuggestion: %s", ce.Suggestion)
	}
	return b.String()
}
