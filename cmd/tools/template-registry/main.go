// cmd/tools/template-registry/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/database"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/correspondence"
	"correspondence-workers/internal/templates"
	"correspondence-workers/pkg/registry"
)

const defaultRegistryPath = "configs/templates.yaml"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return validateRegistry(*path, out)

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return listTemplates(*path, out)

	case "preview":
		fs := flag.NewFlagSet("preview", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Template ID to render")
		inquiry := fs.String("inquiry", "", "JSON file with {inquiry, options}")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("-id is required for preview")
		}
		return previewTemplate(*path, *id, *inquiry, out)

	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		path := fs.String("path", "", "Path to registry file (defaults to template.registry_path)")
		dryRun := fs.Bool("dry-run", false, "Validate and list without writing")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return seedRegistry(*path, *dryRun, out)

	case "help", "-h", "--help":
		help(out)
		return nil

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func loadValid(path string) (*registry.TemplateRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	problems, err := registry.Validate(reg)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		msg := fmt.Sprintf("%d problem(s) in %s:", len(problems), path)
		for _, p := range problems {
			msg += "\n  - " + p.String()
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return reg, nil
}

func validateRegistry(path string, out io.Writer) error {
	reg, err := loadValid(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registry validation passed. Found %d templates.\n", len(reg.Templates))
	return nil
}

func listTemplates(path string, out io.Writer) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, entry := range reg.Templates {
		fmt.Fprintf(out, "%-28s %s\n", entry.ID, entry.Name)
	}
	return nil
}

type previewInput struct {
	Inquiry correspondence.InquiryContext `json:"inquiry"`
	Options []correspondence.OfferOption  `json:"options"`
}

func previewTemplate(path, id, inquiryPath string, out io.Writer) error {
	reg, err := loadValid(path)
	if err != nil {
		return err
	}

	var entry *registry.TemplateEntry
	for i := range reg.Templates {
		if reg.Templates[i].ID == id {
			entry = &reg.Templates[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("template %s not found in %s", id, path)
	}

	var input previewInput
	if inquiryPath != "" {
		data, err := os.ReadFile(inquiryPath)
		if err != nil {
			return fmt.Errorf("failed to read inquiry: %w", err)
		}
		if err := json.Unmarshal(data, &input); err != nil {
			return fmt.Errorf("failed to parse inquiry: %w", err)
		}
	}

	engine := correspondence.New(correspondence.DefaultSettings())
	doc := engine.RenderTemplate(entry.Template().Correspondence(), input.Inquiry, input.Options)
	fmt.Fprintf(out, "Subject: %s\n\n%s\n", doc.Subject, doc.Body)
	return nil
}

func seedRegistry(path string, dryRun bool, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if path == "" {
		path = cfg.Template.RegistryPath
	}
	if path == "" {
		return fmt.Errorf("no registry path given and template.registry_path is empty")
	}

	reg, err := loadValid(path)
	if err != nil {
		return err
	}
	if dryRun {
		for _, entry := range reg.Templates {
			fmt.Fprintf(out, "would save %s\n", entry.ID)
		}
		return nil
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).Named("template-registry")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store := templates.NewStore(pg.DB, rdb.Client, cfg.Database.Redis.KeyPrefix, cfg.Template.CacheTTLDuration(), log)
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare template table: %w", err)
	}

	for _, entry := range reg.Templates {
		t := entry.Template()
		if err := store.Save(ctx, &t); err != nil {
			return fmt.Errorf("failed to save %s: %w", entry.ID, err)
		}
		fmt.Fprintf(out, "saved %s (version %d)\n", t.ID, t.Version)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: template-registry <command> [flags]

Commands:
  validate  Validate a registry file
  list      List the templates in a registry file
  preview   Render one template with sample inquiry data
  seed      Write every template of a registry file to the template store
  help      Show this help message

Examples:
  template-registry validate -path configs/templates.yaml
  template-registry preview -path configs/templates.yaml -id summer-terrace -inquiry inquiry.json
  template-registry seed -path configs/templates.yaml -dry-run

Use 'template-registry <command> -h' for more information about a command.
`)
}
