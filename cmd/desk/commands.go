package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"article-desk/internal/controller"
	"article-desk/internal/importer"
	"article-desk/internal/model"
	"article-desk/internal/tui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "desk",
		Short:         "article-desk - manage articles on a remote articles API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: user config dir)")
	flags.StringVar(&opts.apiURL, "api", "", "Base URL of the articles API")
	flags.StringVar(&opts.session, "session", "", `Token storage: "badger", "memory", a redis:// URL or hybrid+redis://`)
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory for the badger token store")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout")

	root.AddCommand(
		newTUICmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newListCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *options) error {
	a, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(cmd.Context(), a.ctrl)
}

func newLoginCmd(opts *options) *cobra.Command {
	var creds model.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				return a.ctrl.Login(cmd.Context(), creds)
			})
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "Password")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				return a.ctrl.Logout(cmd.Context())
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if err := a.ctrl.GetArticles(cmd.Context()); err != nil {
					return err
				}
				printArticles(cmd.OutOrStdout(), a.ctrl.State().Articles)
				return nil
			})
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	var in articleFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				outcome, err := a.ctrl.PostArticle(cmd.Context(), in.input())
				return outcomeErr(outcome, err)
			})
		},
	}
	in.register(cmd)
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	var in articleFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an article; unset fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				// The API wants the whole article, so start from the current copy.
				if err := a.ctrl.GetArticles(cmd.Context()); err != nil {
					return err
				}
				if err := a.ctrl.SelectArticle(id); err != nil {
					return err
				}
				current, _ := a.ctrl.CurrentArticle()
				outcome, err := a.ctrl.UpdateArticle(cmd.Context(), id, in.merge(current.Input()))
				return outcomeErr(outcome, err)
			})
		},
	}
	in.register(cmd)
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				return a.ctrl.DeleteArticle(cmd.Context(), id)
			})
		},
	}
}

// importScraper is swapped in tests.
var importScraper importer.Scraper

func newImportCmd(opts *options) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "import [url]",
		Short: "Create an article from the readable part of a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseTopic(topic)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				im := importer.New(a.ctrl, a.logger.Named("importer"))
				if importScraper != nil {
					im.SetScraper(importScraper)
				}
				outcome, err := im.Import(cmd.Context(), args[0], t)
				return outcomeErr(outcome, err)
			})
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Topic: JavaScript, React or Node")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Long: `Show the settings after the config file, DESK_* variables and flags
are applied. With --save the flags given on this command line are written
to the config file so later runs pick them up.`,
		Example: `  # Point every later run at a staging API
  desk config --save --api https://staging.example.com/api

  # Share one login between terminals
  desk config --save --session redis://localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if save {
				path, _, err := opts.save()
				if err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				fmt.Fprintf(out, "Saved %s\n", path)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the given flags to the config file")
	return cmd
}

// withApp opens the app, runs fn and prints the resulting status message.
func withApp(cmd *cobra.Command, opts *options, fn func(a *app) error) error {
	a, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	err = fn(a)
	if msg := a.ctrl.State().Message; msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	return err
}

func outcomeErr(outcome controller.Outcome, err error) error {
	if err != nil {
		return err
	}
	if outcome != controller.OutcomeSuccess {
		return fmt.Errorf("request outcome: %s", outcome)
	}
	return nil
}

type articleFlags struct {
	title, text, topic string
}

func (f *articleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Article title")
	cmd.Flags().StringVar(&f.text, "text", "", "Article text")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Topic: JavaScript, React or Node")
}

func (f articleFlags) input() model.ArticleInput {
	return model.ArticleInput{Title: f.title, Text: f.text, Topic: model.Topic(f.topic)}
}

// merge fills unset flags from base.
func (f articleFlags) merge(base model.ArticleInput) model.ArticleInput {
	in := f.input()
	if in.Title == "" {
		in.Title = base.Title
	}
	if in.Text == "" {
		in.Text = base.Text
	}
	if in.Topic == "" {
		in.Topic = base.Topic
	}
	return in
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.New("article id must be a positive integer")
	}
	return id, nil
}

func printArticles(w io.Writer, articles []model.Article) {
	for _, a := range articles {
		fmt.Fprintf(w, "#%d  %s  [%s]\n    %s\n", a.ID, a.Title, a.Topic, a.Text)
	}
}
