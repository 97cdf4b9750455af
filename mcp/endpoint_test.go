package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/corvidae/docchat/vector"
)

// stubService answers every question with a fixed string.
type stubService struct{}

func (stubService) Close() error { return nil }

func (stubService) Ask(ctx context.Context, question string, topK ...int) (string, error) {
	return "answer to: " + question, nil
}

func (stubService) Retrieve(ctx context.Context, query string, topK ...int) ([]vector.Result, error) {
	return []vector.Result{
		{Chunk: "alpha fact two", Source: "a.pdf", Score: 0.9},
	}, nil
}

func (stubService) Reset(ctx context.Context) error { return nil }

func TestUnmarshalInitializeRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 1,
	  "method": "initialize",
	  "params": {
	    "protocolVersion": "2024-11-05",
	    "capabilities": {},
	    "clientInfo": {
	      "name": "ExampleClient",
	      "version": "1.0.0"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	var params mcp.InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(mcp.JSONRPC_VERSION, req.JSONRPC)
	assert.Equal(mcp.NewRequestId(int64(1)), req.ID)
	assert.Equal(mcp.MethodInitialize, req.Method)
	assert.Equal("2024-11-05", params.ProtocolVersion)
}

func TestListToolsEndpoint(t *testing.T) {
	assert := assert.New(t)

	endpoint := ListToolsEndpoint(stubService{})

	resp := endpoint(context.Background(), JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(1)),
		Method:  mcp.MethodToolsList,
	})

	response, ok := resp.(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("unexpected response type")
		return
	}

	result, ok := response.Result.(*mcp.ListToolsResult)
	if !ok {
		assert.Fail("unexpected result type")
		return
	}

	assert.Len(result.Tools, 2)
	assert.Equal(AskToolName, result.Tools[0].Name)
	assert.Equal(SearchToolName, result.Tools[1].Name)
}

func TestCallToolEndpointAsk(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(stubService{})

	params, _ := json.Marshal(map[string]any{
		"name": AskToolName,
		"arguments": map[string]any{
			"question": "what is alpha?",
			"top_k":    2,
		},
	})

	resp := endpoint(context.Background(), JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(2)),
		Method:  mcp.MethodToolsCall,
		Params:  params,
	})

	response, ok := resp.(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("unexpected response type")
		return
	}

	result, ok := response.Result.(*mcp.CallToolResult)
	if !ok {
		assert.Fail("unexpected result type")
		return
	}

	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		assert.Fail("unexpected content type")
		return
	}

	assert.Equal("answer to: what is alpha?", content.Text)
}

func TestCallToolEndpointUnknownTool(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(stubService{})

	params, _ := json.Marshal(map[string]any{
		"name":      "no_such_tool",
		"arguments": map[string]any{},
	})

	resp := endpoint(context.Background(), JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(3)),
		Method:  mcp.MethodToolsCall,
		Params:  params,
	})

	_, ok := resp.(mcp.JSONRPCError)
	assert.True(ok, "unknown tools must yield a JSON-RPC error")
}
