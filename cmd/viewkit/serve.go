package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	viewkit "github.com/goliatone/go-viewkit"
	"github.com/goliatone/go-viewkit/pkg/form"
	"github.com/goliatone/go-viewkit/pkg/view"
)

const pagesFolder = "pages"

type serveOptions struct {
	addr string
	data string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve templates under pages/ over HTTP, echoing posted form values.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := loadVars(opts.data)
			if err != nil {
				return err
			}
			kit, err := root.kit(cmd.Context())
			if err != nil {
				return err
			}
			addr := opts.addr
			if addr == "" {
				addr = kit.Config().Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, newRouter(kit, vars))
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "YAML or JSON file with template variables")
	return cmd
}

// newRouter renders pages/<path> for every request. Posted values are fed to
// the form helper so submitted forms re-render with what was sent.
func newRouter(kit *viewkit.Kit, vars map[string]any) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Any("/*path", func(c *gin.Context) {
		name := strings.Trim(c.Param("path"), "/")
		if name == "" {
			name = "index"
		}

		var out strings.Builder
		err := kit.Render(c.Request.Context(), &out, pagesFolder+"/"+name, vars,
			viewkit.WithPosted(form.PostedFromGin(c)),
			viewkit.WithAction(c.Request.URL.Path),
			viewkit.WithLocale(c.Query("locale")),
		)
		switch {
		case errors.Is(err, view.ErrInvalidTemplate):
			c.String(http.StatusNotFound, "page %q not found", name)
		case err != nil:
			slog.Error("viewkit: render failed", "page", name, "error", err)
			c.String(http.StatusInternalServerError, "render failed")
		default:
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out.String()))
		}
	})
	return router
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("viewkit: listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
