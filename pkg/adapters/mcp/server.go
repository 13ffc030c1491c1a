package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/internal/presentation/graph"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Resource URIs.
const (
	BannerURI = "exusiai://banner"
	TreeURI   = "exusiai://tree"
)

// PullResponse is the structured result of the pull tool.
type PullResponse struct {
	Banner  string        `json:"banner" jsonschema_description:"The banner pulled from"`
	Pulls   []domain.Pull `json:"pulls" jsonschema_description:"One entry per pull, in order"`
	Summary string        `json:"summary" jsonschema_description:"Human readable result lines"`
}

// Gacha defines the operations the MCP server needs. *exusiai.Gacha satisfies it.
type Gacha interface {
	Banner() domain.Banner
	Banners() []domain.Banner
	SetBanner(ctx context.Context, name string) error
	Info() exusiai.Info
	Pull(ctx context.Context, user string, n int) ([]domain.Pull, error)
	Status(ctx context.Context, user string) (gacha.Status, error)
	View(fn func(root *probtree.Node))
}

// Server wraps the Gacha and exposes it as an MCP Server.
type Server struct {
	gacha     Gacha
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(g Gacha, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		gacha:     g,
		mcpServer: server.NewMCPServer("exusiai-mcp", exusiai.Version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: pull
	pullTool := mcp.NewTool("pull",
		mcp.WithDescription("Recruit operators from the current banner."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Who is pulling; pity is tracked per user")),
		mcp.WithNumber("count", mcp.Description("Number of pulls, 1 to 300 (default 1)")),
		mcp.WithOutputSchema[PullResponse](),
	)
	s.mcpServer.AddTool(pullTool, mcp.NewStructuredToolHandler(s.handlePull))

	// TOOL: list_banners
	s.mcpServer.AddTool(mcp.NewTool("list_banners",
		mcp.WithDescription("List every banner and mark the current one."),
	), s.handleListBanners)

	// TOOL: set_banner
	s.mcpServer.AddTool(mcp.NewTool("set_banner",
		mcp.WithDescription("Switch the current banner."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Banner name")),
	), s.handleSetBanner)

	// TOOL: banner_info
	s.mcpServer.AddTool(mcp.NewTool("banner_info",
		mcp.WithDescription("Describe the current banner: rates, rate-up operators and pity."),
		mcp.WithOutputSchema[exusiai.Info](),
	), mcp.NewStructuredToolHandler(s.handleBannerInfo))

	// TOOL: pity_status
	s.mcpServer.AddTool(mcp.NewTool("pity_status",
		mcp.WithDescription("Show a user's pity counter and next-pull rate."),
		mcp.WithString("user", mcp.Required(), mcp.Description("User name")),
	), s.handlePityStatus)
}

func (s *Server) handlePull(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PullResponse, error) {
	user, _ := args["user"].(string)
	if user == "" {
		return PullResponse{}, errors.New("user is required")
	}
	count := 1
	if n, ok := args["count"].(float64); ok {
		count = int(n)
	}

	pulls, err := s.gacha.Pull(ctx, user, count)
	if err != nil {
		return PullResponse{}, fmt.Errorf("pull failed: %w", err)
	}
	return PullResponse{
		Banner:  s.gacha.Banner().Name,
		Pulls:   pulls,
		Summary: tui.PullsText(pulls, false),
	}, nil
}

func (s *Server) handleListBanners(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		Name    string `json:"name"`
		Title   string `json:"title,omitempty"`
		Current bool   `json:"current"`
	}
	current := s.gacha.Banner().Name
	var out []entry
	for _, b := range s.gacha.Banners() {
		out = append(out, entry{Name: b.Name, Title: b.Title, Current: b.Name == current})
	}
	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSetBanner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.gacha.SetBanner(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set banner failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("current banner: %s", name)), nil
}

func (s *Server) handleBannerInfo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (exusiai.Info, error) {
	return s.gacha.Info(), nil
}

func (s *Server) handlePityStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := request.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.gacha.Status(ctx, user)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(st)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: exusiai://banner
	s.mcpServer.AddResource(mcp.NewResource(BannerURI, "Current Banner",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.gacha.Info())
		if err != nil {
			return nil, fmt.Errorf("failed to encode banner: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      BannerURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: exusiai://tree
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Current Banner Tree",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var out string
		s.gacha.View(func(root *probtree.Node) {
			out = graph.GenerateMermaid(root, nil)
		})
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "text/plain",
				Text:     out,
			},
		}, nil
	})
}
