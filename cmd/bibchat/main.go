// Copyright 2026 VIP Research Exchange
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/vipresearch/bibchat"
	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/chat"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
	"github.com/vipresearch/bibchat/relevance"
)

func main() {
	app := &cli.App{
		Name:  "bibchat",
		Usage: "Grounded chat over a curated research catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build the entry catalog from a JSON feed and report its size",
				Action: indexCommand,
				Flags: []cli.Flag{
					feedFlag(),
					baseURLFlag(),
				},
			},
			{
				Name:      "search",
				Usage:     "Rank catalog entries for a query",
				ArgsUsage: "<query terms>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					feedFlag(),
					baseURLFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: relevance.DefaultLimit,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask one question against the catalog",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					feedFlag(),
					baseURLFlag(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the chat history database directory",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Verified organization email used as the rate-limit identity",
						EnvVars: []string{"BIBCHAT_EMAIL"},
					},
					&cli.StringFlag{
						Name:  "org-suffix",
						Usage: "Identity domain suffix admitted by the gate",
						Value: chat.DefaultOrgSuffix,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func feedFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "feed",
		Aliases:  []string{"f"},
		Usage:    "Path to the JSON entry feed",
		Required: true,
	}
}

func baseURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "base-url",
		Usage: "Canonical catalog page URL used for entry anchors",
	}
}

func setup(c *cli.Context) error {
	// Present but unreadable .env files are real errors; absence is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func indexCommand(c *cli.Context) error {
	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	count, err := rebuild(c, assistant)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d entries\n", count)
	for _, entry := range assistant.Catalog().Entries() {
		fmt.Printf("  %s: %s\n", entry.ID, entry.Title)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query terms are required")
	}

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if _, err := rebuild(c, assistant); err != nil {
		return err
	}

	results := assistant.Search(query, c.Int("limit"))
	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%s)[%d]\n", i, hit.Title, hit.ID, hit.Score)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("a question is required")
	}
	email := c.String("email")
	if email == "" {
		return fmt.Errorf("email is required (flag --email or BIBCHAT_EMAIL)")
	}

	opts := []bibchat.AssistantOption{
		bibchat.WithBaseURL(c.String("base-url")),
		bibchat.WithOrgSuffix(c.String("org-suffix")),
		bibchat.WithAIConfig(ai.NewConfig(
			ai.WithToken(os.Getenv("ANTHROPIC_API_KEY")),
		)),
	}
	if dbPath := c.String("db"); dbPath != "" {
		opts = append(opts, bibchat.WithStorePath(dbPath))
	}

	assistant, err := bibchat.NewAssistant(opts...)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if _, err := rebuild(c, assistant); err != nil {
		return err
	}

	resp, err := assistant.Ask(context.Background(), &chat.Request{
		Messages:  []chat.Message{{Role: core.RoleUser, Content: question}},
		UserEmail: email,
	})
	if err != nil {
		body := chat.ErrorBodyFor(err)
		fmt.Fprintln(os.Stderr, body.Error)
		return err
	}

	fmt.Println(resp.Message)
	fmt.Fprintf(os.Stderr, "\n[model: %s, tokens in/out: %d/%d]\n",
		resp.ModelUsed, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return nil
}

func newAssistant(c *cli.Context) (*bibchat.Assistant, error) {
	return bibchat.NewAssistant(
		bibchat.WithBaseURL(c.String("base-url")),
		bibchat.WithCompleter(noCompleter{}),
	)
}

func rebuild(c *cli.Context, assistant *bibchat.Assistant) (int, error) {
	count, err := assistant.Rebuild(context.Background(), index.NewFileSource(c.String("feed")))
	if err != nil {
		return 0, fmt.Errorf("failed to build catalog: %w", err)
	}
	return count, nil
}

// noCompleter backs the offline commands, which never reach the provider.
type noCompleter struct{}

func (noCompleter) Complete(ctx context.Context, systemPrompt string, turns []core.ChatTurn) (*ai.Completion, error) {
	return nil, fmt.Errorf("no completion provider configured")
}
