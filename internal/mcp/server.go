package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formforge/formforge/internal/config"
	"github.com/formforge/formforge/internal/descriptions"
	"github.com/formforge/formforge/internal/export"
	"github.com/formforge/formforge/internal/form"
)

// Server exposes the form service as MCP tools.
type Server struct {
	config      *config.Config
	formService *form.Service
	mcpServer   *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, formService *form.Service) (*Server, error) {
	if formService == nil {
		return nil, fmt.Errorf("formService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:      cfg,
		formService: formService,
		mcpServer:   mcpServer,
	}

	s.registerTools()

	return s, nil
}

// toolCatalog describes the registered tools for server info responses.
func toolCatalog() []form.ToolInfo {
	return []form.ToolInfo{
		{Name: "form_server_info", Description: "Get server information and usage guidance", Parameters: "none"},
		{Name: "questions_get", Description: "Get the active question list as JSON", Parameters: "none"},
		{
			Name:        "questions_validate",
			Description: "Validate a JSON question document against the questionnaire schema",
			Parameters:  "document (required): JSON array of question definitions",
		},
		{
			Name:        "form_submit",
			Description: "Submit answers for the active questionnaire",
			Parameters:  "answers (required): JSON object keyed by question index",
		},
		{Name: "forms_list", Description: "List previously saved submissions, oldest first", Parameters: "none"},
		{
			Name:        "form_load",
			Description: "Load one saved submission by id with images restored",
			Parameters:  "id (required): saved form id",
		},
		{
			Name:        "image_get",
			Description: "Fetch a stored image payload by image-store id",
			Parameters:  "id (required): image-store id",
		},
		{Name: "export_inspect", Description: "Verify and inspect the last exported PDF document", Parameters: "none"},
	}
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	serverInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.FormServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)

	questionsGetTool := mcp.NewTool(
		"questions_get",
		mcp.WithDescription(descriptions.QuestionsGetDescription),
	)
	s.mcpServer.AddTool(questionsGetTool, s.handleQuestionsGet)

	questionsValidateTool := mcp.NewTool(
		"questions_validate",
		mcp.WithDescription(descriptions.QuestionsValidateDescription),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("JSON array of question definitions"),
		),
	)
	s.mcpServer.AddTool(questionsValidateTool, s.handleQuestionsValidate)

	formSubmitTool := mcp.NewTool(
		"form_submit",
		mcp.WithDescription(descriptions.FormSubmitDescription),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description(`JSON object keyed by question index; values are a string, an array of strings, or {"file": "<Base64 data URI>"}`),
		),
	)
	s.mcpServer.AddTool(formSubmitTool, s.handleFormSubmit)

	formsListTool := mcp.NewTool(
		"forms_list",
		mcp.WithDescription(descriptions.FormsListDescription),
	)
	s.mcpServer.AddTool(formsListTool, s.handleFormsList)

	formLoadTool := mcp.NewTool(
		"form_load",
		mcp.WithDescription(descriptions.FormLoadDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Saved form id"),
		),
	)
	s.mcpServer.AddTool(formLoadTool, s.handleFormLoad)

	imageGetTool := mcp.NewTool(
		"image_get",
		mcp.WithDescription(descriptions.ImageGetDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Image-store id"),
		),
	)
	s.mcpServer.AddTool(imageGetTool, s.handleImageGet)

	exportInspectTool := mcp.NewTool(
		"export_inspect",
		mcp.WithDescription(descriptions.ExportInspectDescription),
	)
	s.mcpServer.AddTool(exportInspectTool, s.handleExportInspect)
}

// Handler functions

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.formService.ServerInfo(s.config.ServerName, s.config.Version, toolCatalog())
	return mcp.NewToolResultText(s.formatServerInfoResult(info)), nil
}

func (s *Server) handleQuestionsGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questions := s.formService.Questions()
	if len(questions) == 0 {
		return mcp.NewToolResultText("No question list is currently loaded."), nil
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Active question list (%d question(s)):\n%s", len(questions), data)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleQuestionsValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.formService.ValidateQuestions(form.ValidateQuestionsRequest{Raw: []byte(document)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("Question document is invalid: %s", result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Question document is valid (%d question(s)).", result.Count)), nil
}

func (s *Server) handleFormSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answersJSON, err := request.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var answers map[int]form.Value
	if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answers must be a JSON object keyed by question index: %v", err)), nil
	}

	result, err := s.formService.SubmitForm(ctx, form.SubmitFormRequest{Answers: answers})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatSubmitFormResult(result)), nil
}

func (s *Server) handleFormsList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	forms := s.formService.ListForms()
	if len(forms) == 0 {
		return mcp.NewToolResultText("No saved submissions."), nil
	}

	text := fmt.Sprintf("Found %d saved submission(s):\n", len(forms))
	for i, f := range forms {
		created := time.UnixMilli(f.CreatedAt).Format(time.RFC3339)
		text += fmt.Sprintf("%d. %s\n", i+1, f.ID)
		text += fmt.Sprintf("   Created: %s\n", created)
		text += fmt.Sprintf("   Questions: %d, Answers: %d, Images: %d\n", len(f.Questions), len(f.Answers), len(f.ImageMap))
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFormLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.formService.LoadForm(ctx, form.LoadFormRequest{ID: id})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatLoadFormResult(result)), nil
}

func (s *Server) handleImageGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, ok, err := s.formService.GetImage(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No stored image with id %s", id)), nil
	}

	return mcp.NewToolResultText(payload), nil
}

func (s *Server) handleExportInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := filepath.Join(s.config.ExportDirectory, export.FileName)
	info, err := export.Inspect(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Export artifact: %s\n", info.Path)
	text += fmt.Sprintf("Size: %d bytes\n", info.Size)
	text += fmt.Sprintf("Pages: %d\n", info.Pages)
	text += "\nContent:\n"
	text += info.Text
	return mcp.NewToolResultText(text), nil
}

// Formatting methods

func (s *Server) formatSubmitFormResult(result *form.SubmitFormResult) string {
	if !result.Submitted {
		text := "Submission rejected: required questions are unanswered.\n"
		text += fmt.Sprintf("First offending question index: %d\n", result.FirstError)
		text += "Errors:\n"

		indexes := make([]int, 0, len(result.Errors))
		for i := range result.Errors {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		for _, i := range indexes {
			text += fmt.Sprintf("  [%d] %s\n", i, result.Errors[i])
		}
		return text
	}

	text := "Submission saved.\n"
	text += fmt.Sprintf("Form ID: %s\n", result.FormID)
	text += fmt.Sprintf("Created: %s\n", time.UnixMilli(result.CreatedAt).Format(time.RFC3339))
	text += fmt.Sprintf("Stored answers: %d, stored images: %d\n", len(result.Answers), len(result.ImageMap))
	if result.ExportPath != "" {
		text += fmt.Sprintf("Export: %s\n", result.ExportPath)
	}
	return text
}

func (s *Server) formatLoadFormResult(result *form.LoadFormResult) string {
	f := result.Form
	text := fmt.Sprintf("Saved form %s (created %s)\n", f.ID, time.UnixMilli(f.CreatedAt).Format(time.RFC3339))

	for i, q := range f.Questions {
		text += fmt.Sprintf("\nQ%d: %s", i+1, q.Question)
		if q.Required {
			text += " *"
		}
		text += "\n"

		v, ok := result.Values[i]
		switch {
		case !ok:
			text += "A: No answer provided\n"
		case v.Kind() == form.ValueFile:
			text += fmt.Sprintf("A: [image, %d bytes, id %s]\n", len(v.File()), f.ImageMap[i])
		default:
			text += fmt.Sprintf("A: %s\n", v.String())
		}
	}
	return text
}

func (s *Server) formatServerInfoResult(result *form.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("❓ Active questions: %d\n", result.QuestionCount)
	text += fmt.Sprintf("🗂  Saved submissions: %d\n", result.SavedFormCount)
	text += fmt.Sprintf("📄 Export path: %s\n", result.ExportPath)

	if len(result.SourceErrors) > 0 {
		text += "\n⚠️  Question source failures:\n"
		for _, msg := range result.SourceErrors {
			text += fmt.Sprintf("  • %s\n", msg)
		}
	}

	text += "\n🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += `
Usage Guide:

1. DISCOVER: use 'questions_get' to see the active questionnaire.
2. ANSWER: build an answers object keyed by 0-based question index.
3. SUBMIT: call 'form_submit'; fix any reported required fields and retry.
4. REVIEW: 'forms_list' and 'form_load' re-display prior submissions.
5. EXPORT: every successful submit rewrites the PDF; 'export_inspect' verifies it.`

	return text
}

// Run starts the MCP server in the configured mode.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return fmt.Errorf("server mode is handled by the HTTP front end, not the MCP transport")
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server on standard input/output.
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting form MCP server in stdio mode")
		log.Printf("Data directory: %s", s.config.DataDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
