package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/config"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
	"github.com/chrisreddington/gh-boardkit/internal/hydrate"
	"github.com/chrisreddington/gh-boardkit/internal/throttle"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// boardClient is what the commands need from GitHub
type boardClient interface {
	githubapi.GitHubClient
	githubapi.AccessClient
}

// newClient builds the GitHub client. Tests replace it with a mock.
var newClient = func(settings config.Settings, logger common.Logger) (boardClient, error) {
	client, err := githubapi.NewGHClient(githubapi.ClientOptions{
		Host:    settings.Host,
		Timeout: config.APITimeout,
	})
	if err != nil {
		return nil, err
	}
	client.SetLogger(logger)
	return client, nil
}

var openBrowser = browser.OpenURL

type generateOptions struct {
	configPath      string
	templatePath    string
	boardConfigPath string
	boardType       string
	boardName       string
	placement       string
	columns         []string
	mappings        []string
	dryRun          bool
	jsonOutput      bool
	open            bool
	debug           bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <owner/repo>",
		Short: "Create labels, issues and a project board from a template",
		Long: `Reads a template of labels and phased issues and applies it to a repository.

Labels are created or updated to match, issues whose titles already exist are skipped,
and with --board a Projects v2 board is created and every new issue is placed on it.
Running the same template twice creates nothing new.`,
		Example: `  gh boardkit generate octo-org/demo --template roadmap.yaml --board kanban
  gh boardkit generate octo-org/demo --template roadmap.json --board custom \
      --column Backlog --column "Doing:Work in progress" --column Done \
      --map Plan=Backlog --placement phase-mapping
  gh boardkit generate octo-org/demo --template roadmap.yaml --dry-run
  gh boardkit generate octo-org/demo --template web-app --board kanban`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.templatePath, "template", "t", "", "Template file (.json, .yaml or .yml) or built-in template id")
	flags.StringVarP(&opts.boardType, "board", "b", string(types.BoardTypeNone), "Board type: kanban, scrum, custom or none")
	flags.StringVar(&opts.boardName, "board-name", "", "Project title (default \"<template name> Board\")")
	flags.StringArrayVar(&opts.columns, "column", nil, "Board column as NAME or NAME:DESCRIPTION, repeatable")
	flags.StringArrayVar(&opts.mappings, "map", nil, "Phase to column mapping as PHASE=COLUMN, repeatable")
	flags.StringVar(&opts.boardConfigPath, "board-config", "", "Board configuration file; replaces --board, --column and --map")
	flags.StringVar(&opts.placement, "placement", "", "Placement policy: first-column or phase-mapping")
	flags.StringVar(&opts.configPath, "config", "", "Settings file (default is the user config dir)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without changing anything")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	flags.BoolVar(&opts.open, "open", false, "Open the created project in the browser")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	owner, repo, host, err := parseRepository(args[0])
	if err != nil {
		return err
	}

	// With --json, stdout carries only the result
	infoOut := cmd.OutOrStdout()
	if opts.jsonOutput {
		infoOut = cmd.ErrOrStderr()
	}
	logger := common.NewLoggerWithWriters(opts.debug, infoOut, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	settings, err := config.LoadSettings(ctx, opts.configPath)
	if err != nil {
		return err
	}
	if host != "" {
		settings.Host = host
	}
	if opts.placement != "" {
		settings.Placement = types.PlacementPolicy(opts.placement)
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	tmpl, err := config.ResolveTemplate(ctx, opts.templatePath)
	if err != nil {
		return err
	}
	for _, warning := range config.TemplateWarnings(tmpl) {
		logger.Info("Warning: %s", warning)
	}

	board, err := loadBoard(ctx, opts)
	if err != nil {
		return err
	}
	warnings, err := config.ValidateBoardConfiguration(board, tmpl)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.Info("Warning: %s", warning)
	}

	client, err := newClient(settings, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	if err := client.VerifyAccess(ctx, owner, repo); err != nil {
		return err
	}
	if board.WantsBoard() && !opts.dryRun {
		warnOnMissingProjectScope(ctx, client, logger)
	}

	limiter := throttle.New(throttle.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.Burst,
		MaxRetries:        settings.MaxRetries,
		MaxBackoff:        settings.MaxBackoff.Duration,
		Classify:          githubapi.RetryAfter,
		Logger:            logger,
	})

	generator := hydrate.NewGenerator(client, logger, limiter, hydrate.Options{
		StatusField:   settings.StatusField,
		FallbackField: settings.FallbackField,
		Placement:     settings.Placement,
		DryRun:        opts.dryRun,
		Progress: func(p types.Progress) {
			logger.Debug("%s: %d/%d", p.Stage, p.Current, p.Total)
		},
	})

	runCtx, cancel := context.WithTimeout(ctx, settings.Timeout.Duration)
	defer cancel()

	logger.Info("Generating %q in %s/%s...", tmpl.Name, owner, repo)
	result, genErr := generator.Generate(runCtx, owner, repo, tmpl, board)
	if result == nil {
		return genErr
	}

	if opts.jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		writeSummary(cmd.OutOrStdout(), owner, repo, result, opts.dryRun)
	}
	if genErr != nil {
		return genErr
	}

	if opts.open && result.ProjectURL != "" {
		if err := openBrowser(result.ProjectURL); err != nil {
			logger.Info("Could not open %s: %v", result.ProjectURL, err)
		}
	}
	return nil
}

// parseRepository accepts OWNER/REPO or HOST/OWNER/REPO. host is empty unless given explicitly.
func parseRepository(arg string) (owner, repo, host string, err error) {
	r, err := repository.Parse(arg)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid repository %q: %w", arg, err)
	}
	if strings.Count(arg, "/") == 2 {
		host = r.Host
	}
	return r.Owner, r.Name, host, nil
}

func loadBoard(ctx context.Context, opts *generateOptions) (*types.BoardConfiguration, error) {
	if opts.boardConfigPath == "" {
		return config.ResolveBoardConfiguration(config.BoardOptions{
			Type:     types.BoardType(opts.boardType),
			Name:     opts.boardName,
			Columns:  opts.columns,
			Mappings: opts.mappings,
		})
	}

	board, err := config.LoadBoardConfiguration(ctx, opts.boardConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.boardName != "" {
		board.BoardName = opts.boardName
	}
	return board, nil
}

// warnOnMissingProjectScope only warns: fine-grained tokens report no scopes at all
func warnOnMissingProjectScope(ctx context.Context, client githubapi.AccessClient, logger common.Logger) {
	scopes, err := client.TokenScopes(ctx)
	if err != nil {
		logger.Debug("Could not read token scopes: %v", err)
		return
	}
	if len(scopes) > 0 && !githubapi.HasProjectScope(scopes) {
		logger.Info("Warning: token lacks the 'project' scope, board creation will likely fail. Run: gh auth refresh -s project")
	}
}
