package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"travelease/config"
	"travelease/internal/app"
	"travelease/internal/summarizer"
	"travelease/internal/summary/document"
	"travelease/internal/summary/model"
	"travelease/internal/summary/render"
	"travelease/internal/summary/service"
	"travelease/internal/summary/tile"
	"travelease/pkg/logger"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const defaultWidth = 80

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.LogLevel)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, cfg)
		},
	}
}

func openService(cmd *cobra.Command) (*service.SummaryService, *sql.DB, error) {
	return app.Open(cmd.Context(), config.Load())
}

func listCmd() *cobra.Command {
	var userID string
	var width int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's summaries as collapsed tiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := openService(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			views, err := svc.ListTiles(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No summaries yet.")
				return nil
			}
			for _, v := range views {
				fmt.Fprintf(out, "#%d\n%s\n", v.ID, tile.Card(v, width))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().IntVar(&width, "width", defaultWidth, "card width")
	cmd.MarkFlagRequired("user")
	return cmd
}

func showCmd() *cobra.Command {
	var userID, style string
	var expand bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid summary id %q", args[0])
			}

			svc, db, err := openService(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := svc.GetTile(cmd.Context(), userID, id, expand)
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), v, width, style)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().BoolVar(&expand, "expand", false, "show the full summary")
	cmd.Flags().IntVar(&width, "width", defaultWidth, "output width")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style for expanded summaries (auto, dark, light, notty)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func renderCmd() *cobra.Command {
	var format, style string
	var width int

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a local summary document",
		Long:  "Render a summary document read from a file, or stdin with -. Formats: terminal, glamour, markdown, html, json.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			c := parseContent(data)
			out := cmd.OutOrStdout()

			switch format {
			case "terminal":
				fmt.Fprintln(out, render.Terminal(render.Summary(c), width))
				return nil
			case "glamour":
				s, err := glamourRender(render.Markdown(render.Summary(c)), width, style)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
				return nil
			}

			rendered, err := service.RenderContent(render.New(), c, format)
			if err != nil {
				return err
			}
			out.Write(rendered.Body)
			if !bytes.HasSuffix(rendered.Body, []byte("\n")) {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "terminal", "output format")
	cmd.Flags().IntVar(&width, "width", defaultWidth, "output width")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style")
	return cmd
}

func processCmd() *cobra.Command {
	var userID, style string
	var expand bool
	var width int

	cmd := &cobra.Command{
		Use:   "process <link>",
		Short: "Summarize a link with the configured summarizer",
		Long:  "Summarize a link. With --user the summary is stored for that user, otherwise it is only printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var t *tile.Tile
			if userID != "" {
				svc, db, err := openService(cmd)
				if err != nil {
					return err
				}
				defer db.Close()

				_, rec, err := svc.Process(ctx, userID, args[0])
				if err != nil {
					return err
				}
				t = svc.NewTile(rec)
			} else {
				s, err := summarizer.New(config.Load())
				if err != nil {
					return err
				}
				link, err := summarizer.NormalizeLink(args[0])
				if err != nil {
					return err
				}
				v, err := s.Summarize(ctx, link)
				if err != nil {
					return err
				}
				t = tile.New(model.SummaryRecord{Content: document.Doc(v)})
			}

			if expand {
				t.Toggle()
			}
			return printView(cmd.OutOrStdout(), t.View(), width, style)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "store the summary for this user id")
	cmd.Flags().BoolVar(&expand, "expand", false, "show the full summary")
	cmd.Flags().IntVar(&width, "width", defaultWidth, "output width")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style for expanded summaries")
	return cmd
}

// printView writes collapsed views as cards and expanded views through
// glamour.
func printView(out io.Writer, v tile.View, width int, style string) error {
	if !v.Expanded {
		fmt.Fprintln(out, tile.Card(v, width))
		return nil
	}

	doc := render.Stack(
		render.Heading(2, v.Title),
		render.Paragraph(render.Italic(v.Date)),
		v.Content,
	)
	s, err := glamourRender(render.Markdown(doc), width, style)
	if err != nil {
		return err
	}
	fmt.Fprint(out, s)
	return nil
}

func glamourRender(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("glamour: %w", err)
	}
	return r.Render(md)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// parseContent decodes JSON input and keeps anything else as raw text.
func parseContent(data []byte) document.Content {
	if v, err := document.Parse(data); err == nil {
		return document.Doc(v)
	}
	return document.Raw(string(data))
}
