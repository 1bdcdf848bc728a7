package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/mediaship/internal/adapters/log"
	"github.com/bft-labs/mediaship/internal/cliconfig"
	"github.com/bft-labs/mediaship/internal/devserver"
	"github.com/bft-labs/mediaship/pkg/mediaship"
)

const helpDescription = `
Upload large photos and videos to the render service, and pick up where you
left off when a transfer breaks.

An upload opens a session and streams the file to it in one request. The
session URL is printed and logged: pass it to "mediaship resume" to send the
remaining bytes after an interruption.

Configure via $HOME/.mediaship/config.toml, MEDIASHIP_* environment variables
(optionally from a .env file), or flags. Flags win over the environment,
which wins over the file.
`

var exampleUsage = strings.TrimSpace(`
  mediaship upload --key <developer-key> holiday.mp4
  mediaship start --key <developer-key> holiday.mp4
  mediaship resume holiday.mp4 http://render1.imageshack.us:8080/renderapi/put/<id> --attempts 5
  mediaship watch --ext jpg,mp4 ~/Pictures/export
  mediaship devserver --listen :8080
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by every subcommand.
type cli struct {
	cfg       cliconfig.Config
	cfgPath   string
	envFile   string
	blockSize string

	console  *logAdapter.Console
	log      zerolog.Logger
	progress *progressReporter
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.console, _ = logAdapter.NewConsole(os.Stderr, cliconfig.DefaultLogLevel)
	c.log = c.console.Zerolog()

	root := &cobra.Command{
		Use:               "mediaship",
		Short:             "Resumable media uploads to the render service",
		Long:              strings.TrimSpace(helpDescription),
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.mediaship/config.toml)")
	pf.StringVar(&c.envFile, "env-file", ".env", "file with MEDIASHIP_* variables to load if present")
	pf.StringVar(&c.cfg.Endpoint, "endpoint", c.cfg.Endpoint, "service endpoint (scheme://host:port/base)")
	pf.StringVar(&c.cfg.DeveloperKey, "key", "", "developer key")
	pf.StringVar(&c.cfg.Cookie, "cookie", "", "account cookie (optional)")
	pf.StringVar(&c.cfg.Username, "username", "", "account username (optional)")
	pf.StringVar(&c.cfg.Password, "password", "", "account password (optional)")
	pf.StringSliceVar(&c.cfg.Tags, "tags", nil, "comma-separated tags")
	pf.BoolVar(&c.cfg.Public, "public", c.cfg.Public, "make the upload public (--public=false for private)")
	pf.StringVar(&c.blockSize, "block-size", "1KiB", "bytes read from the file per send (e.g. 1024, 64KiB)")
	pf.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "overall deadline per operation")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		c.uploadCmd(),
		c.uploadRangeCmd(),
		c.resumeCmd(),
		c.startCmd(),
		c.probeCmd(),
		c.watchCmd(),
		c.devserverCmd(),
	)

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("mediaship")
		os.Exit(1)
	}
}

// load resolves the configuration: file first, then environment, then the
// flags the user actually set.
func (c *cli) load(cmd *cobra.Command, args []string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.LoadDotEnv(c.envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if changed["block-size"] {
		n, err := cliconfig.ParseSize(c.blockSize)
		if err != nil {
			return fmt.Errorf("parse block-size: %w", err)
		}
		c.cfg.BlockSize = n
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	console, err := logAdapter.NewConsole(os.Stderr, c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.console = console
	c.log = console.Zerolog()
	c.progress = newProgressReporter(c.log, 10)

	c.log.Debug().Interface("config", c.cfg.Redacted()).Msg("configuration")
	return nil
}

func (c *cli) client() (*mediaship.Client, error) {
	return mediaship.New(mediaship.Config{
		Endpoint:     c.cfg.Endpoint,
		DeveloperKey: c.cfg.DeveloperKey,
		Cookie:       c.cfg.Cookie,
		Username:     c.cfg.Username,
		Password:     c.cfg.Password,
		Tags:         c.cfg.Tags,
		Public:       c.cfg.Public,
		BlockSize:    c.cfg.BlockSize,
		Timeout:      c.cfg.Timeout,
	},
		mediaship.WithLogger(c.console.Ports()),
		mediaship.WithProgress(c.progress.report),
	)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// printResult writes the service's answer to stdout and turns a non-2xx
// status into an error for the exit code.
func printResult(cmd *cobra.Command, res mediaship.UploadResult) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", res.StatusCode, res.StatusReason)
	if body := strings.TrimSpace(res.Body); body != "" {
		fmt.Fprintln(cmd.OutOrStdout(), body)
	}
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("service answered %d %s", res.StatusCode, res.StatusReason)
	}
	return nil
}

func (c *cli) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Open a session and upload a whole file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireKey(); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := client.UploadFile(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
}

func (c *cli) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <file>",
		Short: "Open a session and print its URL without uploading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireKey(); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			sess, err := client.OpenSession(ctx, args[0])
			if err != nil {
				return err
			}
			id, _ := sess.SessionID()
			c.log.Info().
				Str("session_id", id).
				Str("file", sess.TargetFile).
				Str("size", units.HumanSize(float64(sess.TotalSize))).
				Msg("session opened")
			fmt.Fprintln(cmd.OutOrStdout(), sess.SessionURL)
			return nil
		},
	}
}

func (c *cli) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <session-url>",
		Short: "Print how many bytes the service holds for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			n, err := client.Probe(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (c *cli) uploadRangeCmd() *cobra.Command {
	var begin, end int64
	cmd := &cobra.Command{
		Use:   "upload-range <file> <session-url>",
		Short: "Upload an explicit byte range to an existing session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := client.UploadRange(ctx, args[0], args[1], begin, end)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().Int64Var(&begin, "begin", 0, "first byte to send")
	cmd.Flags().Int64Var(&end, "end", -1, "last byte to send, inclusive (-1 for end of file)")
	return cmd
}

func (c *cli) resumeCmd() *cobra.Command {
	var (
		end      int64
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "resume <file> <session-url>",
		Short: "Send the bytes a session is still missing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			var res mediaship.UploadResult
			if attempts > 1 {
				res, err = client.ResumeWithRetry(ctx, args[0], args[1], end, attempts)
			} else {
				res, err = client.ResumeUpload(ctx, args[0], args[1], end)
			}
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().Int64Var(&end, "end", -1, "last byte to send, inclusive (-1 for end of file)")
	cmd.Flags().IntVar(&attempts, "attempts", 1, "retry on network errors up to this many attempts")
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	var (
		exts     []string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload every file written to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireKey(); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return client.Watch(ctx, mediaship.WatchConfig{
				Dir:        args[0],
				Extensions: exts,
				Debounce:   debounce,
				OnResult: func(path string, res mediaship.UploadResult, err error) {
					c.progress.reset()
					if err == nil && res.StatusCode/100 != 2 {
						c.log.Warn().Str("file", path).Int("status", res.StatusCode).Str("body", res.Body).Msg("upload rejected")
					}
				},
			})
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "only upload files with these extensions")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before a file is uploaded")
	return cmd
}

func (c *cli) devserverCmd() *cobra.Command {
	var (
		listen     string
		basePath   string
		requireKey string
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in for the render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := devserver.New(devserver.Config{BasePath: basePath, DeveloperKey: requireKey}, c.console.Ports())
			httpSrv := &http.Server{
				Addr:              listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.ListenAndServe() }()
			c.log.Info().Str("listen", listen).Str("base_path", basePath).Msg("dev server running")

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			c.log.Info().Msg("received signal, stopping...")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", devserver.DefaultBasePath, "API base path")
	cmd.Flags().StringVar(&requireKey, "require-key", "", "only accept this developer key")
	return cmd
}
