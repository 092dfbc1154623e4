package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v2"

	"github.com/Cortexa-LLC/mcp/src/patentocr/config"
	"github.com/Cortexa-LLC/mcp/src/patentocr/converter"
	"github.com/Cortexa-LLC/mcp/src/patentocr/output"
	"github.com/Cortexa-LLC/mcp/src/patentocr/pipeline"
)

// MCP tool parameter keys, shared between schema definitions and argument
// extraction.
const (
	argPath     = "path"
	argCategory = "category"
)

// patentService is what the MCP tools need; tests inject a fake.
type patentService interface {
	ExtractFile(ctx context.Context, path, category string) (pipeline.Result, error)
	Info() string
}

type service struct {
	cfg  *config.Config
	proc *pipeline.Processor
	conv *converter.Converter
}

// ExtractFile processes one file. An unknown category is a caller error;
// processing failures come back inside the Result.
func (s *service) ExtractFile(ctx context.Context, path, category string) (pipeline.Result, error) {
	p := *s.proc
	if category != "" {
		if _, ok := p.Extractor.Rules().Lookup(category); !ok {
			return pipeline.Result{}, fmt.Errorf("unknown category %q (known: %s)",
				category, strings.Join(p.Extractor.Rules().Categories(), ", "))
		}
		p.Category = category
	}
	return p.Process(ctx, path), nil
}

func (s *service) Info() string {
	raster, engine := s.conv.Describe()
	var sb strings.Builder
	sb.WriteString("# Patent extraction\n\n")
	sb.WriteString("Each PDF is rasterized, OCR'd page by page, whitespace-normalized and matched against the rule set selected by the first two characters of its file name.\n\n")

	sb.WriteString("## Categories\n\n")
	rows := [][]string{{"Category", "Description"}}
	rules := s.proc.Extractor.Rules()
	for _, c := range rules.Categories() {
		set, _ := rules.Lookup(c)
		rows = append(rows, []string{c, set.Description})
	}
	sb.WriteString(output.RenderTable(rows))

	sb.WriteString("\n## Configuration\n\n")
	sb.WriteString(output.RenderTable([][]string{
		{"Setting", "Value"},
		{"Rasterizer", raster},
		{"OCR engine", engine},
		{"DPI", fmt.Sprint(s.cfg.DPI)},
		{"Languages", s.cfg.Languages},
		{"Normalization", s.cfg.Normalize},
		{"Text layer", fmt.Sprint(s.cfg.UseTextLayer)},
		{"Max file size", fmt.Sprintf("%d MB", s.cfg.MaxFileSizeMB())},
	}))
	return sb.String()
}

func serveAction(c *cli.Context) error {
	cfg, proc, conv, err := setup(c)
	if err != nil {
		return err
	}
	if err := conv.Preflight(); err != nil {
		proc.Logger.Warn("OCR tools unavailable; extraction calls will fail", "error", err)
	}

	s := server.NewMCPServer(appName, appVersion)
	registerTools(s, &service{cfg: cfg, proc: proc, conv: conv})
	return server.ServeStdio(s)
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, svc patentService) {
	s.AddTool(
		mcp.NewTool("extract_patent",
			mcp.WithDescription("OCR a scanned US patent PDF and extract Patent Number, Title, Applicant, "+
				"Application Date and Patent Date. Pass an absolute file path. The rule set is chosen from "+
				"the file-name prefix (02 utility, D0 design, PP plant, RE reissue) unless category is given."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the patent PDF"),
			),
			mcp.WithString(argCategory,
				mcp.Description("Rule category to apply: 02, D0, PP, RE or generic"),
			),
		),
		extractPatentHandler(svc),
	)

	s.AddTool(
		mcp.NewTool("get_extraction_info",
			mcp.WithDescription("Return rule categories, the OCR pipeline and the active configuration."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(svc.Info()), nil
		},
	)
}

func extractPatentHandler(svc patentService) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := req.Params.Arguments[argPath].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError(argPath + " is required"), nil
		}
		category, _ := req.Params.Arguments[argCategory].(string)

		res, err := svc.ExtractFile(ctx, path, category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if res.Failed() {
			return mcp.NewToolResultError(fmt.Sprintf("extract %s: %v", path, res.Err)), nil
		}
		return mcp.NewToolResultText(renderResult(res, false)), nil
	}
}
