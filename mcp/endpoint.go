package mcp

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corvidae/docchat"
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      mcp.RequestId   `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func errorResponse(id any, code int, message string) mcp.JSONRPCError {
	return mcp.JSONRPCError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(id),
		Error: struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    any    `json:"data,omitempty"`
		}{
			Code:    code,
			Message: message,
		},
	}
}

type MCPEndpoint func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage

const (
	AskToolName    = "ask_documents"
	SearchToolName = "search_documents"
)

const MCPSERVER_INSTRUCTIONS string = `DocChat answers questions grounded in a local PDF corpus:

1. **Grounded Answers**: ask_documents retrieves the most relevant passages and answers with them
2. **Semantic Search**: search_documents returns raw passages ranked by similarity
3. **Cached Embeddings**: the corpus is embedded once and served from a local cache

Available operations:
- tools/list: Get the available tools
- tools/call: Execute ask_documents or search_documents

Answers never leave the provided corpus; if the corpus does not cover a question, the answer says so.`

// Tools lists the tools this server exposes.
func Tools() []mcp.Tool {
	ask := mcp.NewTool(AskToolName,
		mcp.WithDescription("Answer a question using the most relevant passages from the PDF corpus."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer."),
		),
		mcp.WithNumber("top_k",
			mcp.Description("How many passages to ground the answer in."),
		),
	)

	search := mcp.NewTool(SearchToolName,
		mcp.WithDescription("Return the corpus passages most similar to a query, with scores and source documents."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query."),
		),
		mcp.WithNumber("top_k",
			mcp.Description("How many passages to return."),
		),
	)

	return []mcp.Tool{ask, search}
}

func InitializeEndpoint(svc docchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		protocolVersion := mcp.LATEST_PROTOCOL_VERSION
		if clientVersion := params.ProtocolVersion; clientVersion != "" {
			if slices.Contains(mcp.ValidProtocolVersions, clientVersion) {
				protocolVersion = clientVersion
			}
		}

		result := &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: mcp.ServerCapabilities{
				Tools: &struct {
					ListChanged bool `json:"listChanged,omitempty"`
				}{},
			},
			ServerInfo: mcp.Implementation{
				Name:    "docchat",
				Version: "1.0.0",
			},
			Instructions: MCPSERVER_INSTRUCTIONS,
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func PingEndpoint(svc docchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  struct{}{}, // empty response
		}
	}
}

func ListToolsEndpoint(svc docchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		result := &mcp.ListToolsResult{
			Tools: Tools(),
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func CallToolEndpoint(svc docchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		args, _ := params.Arguments.(map[string]any)

		var result *mcp.CallToolResult

		switch params.Name {
		case AskToolName:
			question, _ := args["question"].(string)

			answer, err := svc.Ask(ctx, question, topK(args))
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(answer)

		case SearchToolName:
			query, _ := args["query"].(string)

			results, err := svc.Retrieve(ctx, query, topK(args))
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			data, err := json.Marshal(results)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(data))

		default:
			return errorResponse(req.ID, mcp.INVALID_PARAMS, "unknown tool: "+params.Name)
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func topK(args map[string]any) int {
	if v, ok := args["top_k"].(float64); ok {
		return int(v)
	}
	return 0
}
