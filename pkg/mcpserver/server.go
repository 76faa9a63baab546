// Package mcpserver exposes the skill corpus to host agent runtimes
// over the Model Context Protocol. Three tools mirror the minimal API
// a consumer needs: list_skills (the registry), load_skill (one
// manifest) and read_reference (one explicitly named reference
// document). The lazy-load discipline is preserved: read_reference
// takes the exact path a manifest declared and nothing is pushed
// eagerly.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jingkaihe/skillctl/pkg/logger"
	"github.com/jingkaihe/skillctl/pkg/manifest"
	"github.com/jingkaihe/skillctl/pkg/reference"
	"github.com/jingkaihe/skillctl/pkg/skill"
	"github.com/jingkaihe/skillctl/pkg/version"
)

// Server serves skills over MCP stdio.
type Server struct {
	registry skill.Registry
	loader   *manifest.Loader
	resolver *reference.Resolver
	mcp      *server.MCPServer
}

// New creates an MCP server over the given registry snapshot.
func New(registry skill.Registry, loader *manifest.Loader, resolver *reference.Resolver) *Server {
	s := &Server{
		registry: registry,
		loader:   loader,
		resolver: resolver,
	}

	s.mcp = server.NewMCPServer("skillctl", version.Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_skills",
			mcp.WithDescription("List all available skills with their trigger descriptions. Scan this to decide which skill to load for a task."),
		),
		s.handleListSkills,
	)

	s.mcp.AddTool(
		mcp.NewTool("load_skill",
			mcp.WithDescription("Load the full manifest of a skill by name. The manifest body may declare reference documents to read on demand via read_reference."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Skill name as listed by list_skills, e.g. rest-api-design"),
			),
		),
		s.handleLoadSkill,
	)

	s.mcp.AddTool(
		mcp.NewTool("read_reference",
			mcp.WithDescription("Read one reference document of a skill. Only call this with a path the skill's manifest declares; references are loaded on demand, never eagerly."),
			mcp.WithString("skill",
				mcp.Required(),
				mcp.Description("Owning skill name"),
			),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Reference path relative to the skill directory, e.g. references/java-spring.md"),
			),
		),
		s.handleReadReference,
	)

	return s
}

// ServeStdio runs the server over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleListSkills(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.G(ctx).WithField("entries", len(s.registry.Entries)).Debug("listing skills")
	return mcp.NewToolResultText(s.listSkillsText()), nil
}

func (s *Server) handleLoadSkill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.loadSkillText(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger.G(ctx).WithField("skill", name).Debug("manifest served")
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleReadReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skillName, err := request.RequireString("skill")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.resolver.Resolve(skillName, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger.G(ctx).WithField("skill", skillName).WithField("path", path).Debug("reference served")
	return mcp.NewToolResultText(content), nil
}

func (s *Server) listSkillsText() string {
	var sb strings.Builder
	for _, e := range s.registry.Entries {
		fmt.Fprintf(&sb, "%s: %s\n", e.Name, e.Description)
	}
	if sb.Len() == 0 {
		return "no skills registered"
	}
	return sb.String()
}

func (s *Server) loadSkillText(name string) (string, error) {
	m, err := s.loader.Load(name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Skill: %s\n\n%s\n\n", m.Name, m.Description)
	sb.WriteString(m.Body)

	if refs := manifest.References(m); len(refs) > 0 {
		sb.WriteString("\n\nReference documents (load on demand via read_reference):\n")
		for _, ref := range refs {
			fmt.Fprintf(&sb, "- %s\n", ref)
		}
	}

	return sb.String(), nil
}
