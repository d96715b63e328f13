// Package githubapi talks to the GitHub REST and GraphQL APIs through go-gh.
// Every response is decoded into a named struct and checked before it leaves the package.
package githubapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/chrisreddington/gh-boardkit/internal/common"
)

// graphQLDoer is the subset of go-gh's GraphQL client used here
type graphQLDoer interface {
	DoWithContext(ctx context.Context, query string, variables map[string]interface{}, response interface{}) error
	QueryWithContext(ctx context.Context, name string, query interface{}, variables map[string]interface{}) error
}

// restDoer is the subset of go-gh's REST client used here
type restDoer interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
	RequestWithContext(ctx context.Context, method string, path string, body io.Reader) (*http.Response, error)
}

// GHClient is the main client for all GitHub API operations
type GHClient struct {
	gql    graphQLDoer
	rest   restDoer
	logger common.Logger
}

var (
	_ GitHubClient = (*GHClient)(nil)
	_ AccessClient = (*GHClient)(nil)
)

// ClientOptions configures NewGHClient.
type ClientOptions struct {
	// Host is the GitHub host, e.g. github.com or a GHES hostname
	Host string
	// AuthToken overrides the token go-gh would resolve from the environment or gh config
	AuthToken string
	// Timeout bounds a single HTTP request
	Timeout time.Duration
}

// NewGHClient creates REST and GraphQL clients using go-gh, which resolves authentication
// from GH_TOKEN/GITHUB_TOKEN or the gh CLI configuration.
func NewGHClient(opts ClientOptions) (*GHClient, error) {
	apiOpts := api.ClientOptions{
		Host:      opts.Host,
		AuthToken: opts.AuthToken,
		Timeout:   opts.Timeout,
	}

	gqlClient, err := api.NewGraphQLClient(apiOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	restClient, err := api.NewRESTClient(apiOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &GHClient{gql: gqlClient, rest: restClient}, nil
}

// SetLogger sets the logger for debug output
func (c *GHClient) SetLogger(logger common.Logger) {
	c.logger = logger
}

// debugLog logs a debug message if logger is available
func (c *GHClient) debugLog(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(format, args...)
	}
}
