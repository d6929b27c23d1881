package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/printops/gelato-mcp/internal/app"
	"github.com/printops/gelato-mcp/internal/platform/logging"
)

// maxFrameSize bounds a single incoming JSON-RPC line.
const maxFrameSize = 10 * 1024 * 1024

const serverInstructions = "MCP server for Gelato print-on-demand API. " +
	"I can help you search orders, get order details, and explore product catalogs. " +
	"Use resources like orders://{order_id} to load order data into context, " +
	"or tools like search_orders for complex queries."

// Config contains configuration for the MCP server.
type Config struct {
	// Service handles tool and resource invocations.
	Service *app.Service

	// Name and Version identify this server to clients.
	Name    string
	Version string

	// Input and Output are the protocol streams. They default to
	// stdin/stdout.
	Input  io.Reader
	Output io.Writer

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Server hosts the protocol loop: it reads one JSON-RPC message per
// line from Input and writes one response per line to Output.
type Server struct {
	svc     *app.Service
	name    string
	version string
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger

	writeMu sync.Mutex
}

// NewServer creates a new MCP server. Panics if Service is nil.
func NewServer(cfg Config) *Server {
	if cfg.Service == nil {
		panic("mcp.Server: Service is required")
	}

	in := cfg.Input
	if in == nil {
		in = os.Stdin
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "gelato-mcp"
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Server{
		svc:     cfg.Service,
		name:    name,
		version: version,
		in:      in,
		out:     out,
		logger:  logger.With(slog.String("component", "mcp.Server")),
	}
}

// Serve runs the protocol loop until the input stream ends or the
// context is canceled. A clean EOF returns nil.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	s.logger.InfoContext(ctx, "serving",
		slog.String("server", s.name),
		slog.String("version", s.version),
	)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(trimSpace(line)) == 0 {
			continue
		}

		s.handleLine(ctx, line)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading protocol stream: %w", err)
	}

	s.logger.InfoContext(ctx, "input stream closed, shutting down")

	return nil
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t' || b[0] == '\r') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}

	return b
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.write(ctx, errorResponse(nil, codeParseError, "parse error: "+err.Error()))

		return
	}

	if req.JSONRPC != jsonrpcVersion || req.Method == "" {
		if req.isNotification() {
			return
		}

		s.write(ctx, errorResponse(req.ID, codeInvalidRequest, "invalid request"))

		return
	}

	// Every invocation gets its own request id for log correlation.
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	if req.isNotification() {
		// Notifications (e.g. notifications/initialized) need no reply.
		s.logger.DebugContext(ctx, "notification received", slog.String("method", req.Method))

		return
	}

	s.write(ctx, s.dispatch(ctx, &req))
}

func (s *Server) dispatch(ctx context.Context, req *request) response {
	s.logger.DebugContext(ctx, "dispatching request", slog.String("method", req.Method))

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: capabilities{
				Tools:     &toolsCapability{},
				Resources: &resourcesCapability{},
			},
			ServerInfo:   serverInfo{Name: s.name, Version: s.version},
			Instructions: serverInstructions,
		})
	case "ping":
		return resultResponse(req.ID, struct{}{})
	case "tools/list":
		return resultResponse(req.ID, toolsListResult{Tools: toolDefinitions()})
	case "tools/call":
		return s.handleToolCall(ctx, req)
	case "resources/list":
		return resultResponse(req.ID, resourcesListResult{Resources: resourceList()})
	case "resources/templates/list":
		return resultResponse(req.ID, resourceTemplatesListResult{ResourceTemplates: resourceTemplates()})
	case "resources/read":
		return s.handleResourceRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleToolCall(ctx context.Context, req *request) response {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tool call params: "+err.Error())
	}

	if params.Name == "" {
		return errorResponse(req.ID, codeInvalidParams, "tool name is required")
	}

	env, known := s.invokeTool(logging.WithToolName(ctx, params.Name), params.Name, params.Arguments)
	if !known {
		return errorResponse(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return errorResponse(req.ID, codeInternalError, "encoding tool result: "+err.Error())
	}

	return resultResponse(req.ID, callToolResult{
		Content: []contentBlock{{Type: "text", Text: string(raw)}},
	})
}

func (s *Server) handleResourceRead(ctx context.Context, req *request) response {
	var params readResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid resource read params: "+err.Error())
	}

	text, ok := s.readResource(ctx, params.URI)
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, "unknown resource: "+params.URI)
	}

	return resultResponse(req.ID, readResourceResult{
		Contents: []resourceContents{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     text,
		}},
	})
}

// write serializes one response as a single line. The mutex keeps
// frames whole if handlers ever run concurrently.
func (s *Server) write(ctx context.Context, resp response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.ErrorContext(ctx, "encoding response", slog.Any("error", err))

		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.out.Write(append(raw, '\n')); err != nil {
		s.logger.ErrorContext(ctx, "writing response", slog.Any("error", err))
	}
}
