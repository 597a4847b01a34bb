// Package service holds the command line of the site: the HTTP server,
// snapshot sync and maintenance, and terminal search and comparison.
package service

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autoreview/app/content"
	"autoreview/app/repositories"
	"autoreview/app/repositories/sanity"
	"autoreview/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skipConfig marks commands that run without reading the environment.
const skipConfig = "skip-config"

type cli struct {
	envFile string
	conf    *config.Config
	logger  *zap.Logger
}

// NewRootCommand builds the autoreview command tree.
func NewRootCommand(version string) *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "autoreview",
		Short:         "Car reviews, news and side-by-side comparisons",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			conf, err := config.New(c.envFile)
			if err != nil {
				return err
			}
			logger, err := NewLogger(conf.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.conf, c.logger = conf, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env", ".env", "optional env file read before the environment")

	root.AddCommand(
		c.serveCommand(),
		c.syncCommand(),
		c.searchCommand(),
		c.compareCommand(),
		snapshotCommand(),
		versionCommand(version),
	)
	return root
}

func versionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autoreview version %s\n", version)
		},
	}
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web site and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, closeBackend, err := OpenBackend(c.conf, c.logger)
			if err != nil {
				return err
			}
			defer closeBackend()

			handler, err := NewHandler(c.conf, NewServices(c.conf, backend, c.logger), c.logger)
			if err != nil {
				return err
			}
			return NewServer(c.conf.HTTPServer, handler, c.logger).Run(ctx)
		},
	}
}

func (c *cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror the content store into the local snapshot",
		Long: `Uploads comments submitted while serving offline, then replaces the
snapshot's posts, news and cars with the content store's and merges in the
approved comments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repositories.NewStore(c.conf.Snapshot.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			client := content.New(c.conf.ContentStore, c.logger)
			src := Source{
				Posts:    sanity.NewPostRepository(client),
				News:     sanity.NewNewsRepository(client),
				Cars:     sanity.NewCarRepository(client),
				Comments: sanity.NewCommentRepository(client),
			}
			report, err := NewSyncer(src, store, c.conf.CanWrite(), c.logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d posts, %d news items, %d cars and %d comments at %s\n",
				report.Posts, report.News, report.Cars, report.Comments, report.At.Format("2006-01-02 15:04:05"))
			if report.Uploaded > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d pending comments\n", report.Uploaded)
			}
			return nil
		},
	}
}

// openServices builds the services over the configured backend. The
// returned func releases the backend.
func (c *cli) openServices() (*Services, func() error, error) {
	backend, closeBackend, err := OpenBackend(c.conf, c.logger)
	if err != nil {
		return nil, nil, err
	}
	return NewServices(c.conf, backend, c.logger), closeBackend, nil
}
