package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	apperrors "github.com/brunolnetto/barmaid/pkg/errors"
	"github.com/brunolnetto/barmaid/pkg/mermaid"
)

// defaultAddr is the default listen address for the preview server.
const defaultAddr = ":4444"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	diagramOptions
	addr string
}

// serveCommand creates the serve command for the live diagram preview.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve a live browser preview of the migration diagram",
		Long: `Serve starts a small HTTP server that renders the migration history in the
browser via mermaid.js. The page polls for changes, so the diagram refreshes
as migration files are added or edited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.path = args[0]
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	addDiagramFlags(cmd, &opts.diagramOptions)
	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")

	return cmd
}

// runServe validates the flags once, then serves until the context is
// canceled. Every /diagram.mmd request rescans the directory, so the preview
// never goes stale.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	if _, err := mermaid.ParseDirection(opts.direction); err != nil {
		return err
	}
	dir, err := alembic.Locate(opts.path, alembic.DefaultSearchPaths)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestLogger(c.Logger))
	r.Get("/", handleIndex())
	r.Get("/diagram.mmd", c.handleDiagram(dir, opts))

	srv := &http.Server{
		Addr:         opts.addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.Logger.Warn("shutdown", "error", err)
		}
	}()

	printInfo("Serving diagram preview")
	printKeyValue("address", "http://"+displayAddr(opts.addr))
	printKeyValue("watching", dir)
	printDetail("press Ctrl+C to stop")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "serve %s", opts.addr)
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

// handleIndex serves the static preview page.
func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	}
}

// handleDiagram scans the directory and responds with fresh Mermaid text.
// The ETag is a content hash, so unchanged histories answer polls with 304
// and the page only re-renders on real changes.
func (c *CLI) handleDiagram(dir string, opts *serveOpts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := alembic.Scan(dir, alembic.ScanOptions{Pattern: opts.pattern, Logger: c.Logger})
		if err != nil {
			http.Error(w, apperrors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		if len(result.Records) == 0 {
			http.Error(w, "no migrations found in "+dir, http.StatusNotFound)
			return
		}

		direction, _ := mermaid.ParseDirection(opts.direction) // validated at startup
		diagram := mermaid.Generate(result.Records, mermaid.Options{
			Direction:   direction,
			ShowOrphans: !opts.noOrphans,
		})

		sum := sha256.Sum256([]byte(diagram))
		etag := fmt.Sprintf("%q", hex.EncodeToString(sum[:]))
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, diagram)
	}
}

// requestLogger logs requests the way the CLI logs everything else. Debug
// level keeps the 2s polling quiet unless --debug is set.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).Round(time.Millisecond))
		})
	}
}

// displayAddr turns a listen address into something clickable: ":4444"
// becomes "localhost:4444".
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Preview Page
// =============================================================================

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>barmaid</title>
<style>
  body { margin: 0; font-family: ui-sans-serif, system-ui, sans-serif; color: #333; }
  header { padding: 0.75rem 1.25rem; border-bottom: 1px solid #e5e5e5; display: flex; align-items: baseline; gap: 1rem; }
  header h1 { margin: 0; font-size: 1rem; }
  #status { color: #cc0000; font-size: 0.85rem; }
  #graph { padding: 1.5rem; overflow: auto; }
</style>
</head>
<body>
<header>
  <h1>barmaid</h1>
  <span id="status"></span>
</header>
<div id="graph"></div>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: false });

const graph = document.getElementById("graph");
const status = document.getElementById("status");
let etag = "";
let renders = 0;

async function refresh() {
  let res;
  try {
    res = await fetch("/diagram.mmd", { headers: etag ? { "If-None-Match": etag } : {} });
  } catch (err) {
    status.textContent = "server unreachable";
    return;
  }
  if (res.status === 304) return;
  if (!res.ok) {
    status.textContent = await res.text();
    return;
  }
  etag = res.headers.get("ETag") || "";
  const source = await res.text();
  const rendered = await mermaid.render("diagram-" + renders++, source);
  graph.innerHTML = rendered.svg;
  status.textContent = "";
}

refresh();
setInterval(refresh, 2000);
</script>
</body>
</html>
`
