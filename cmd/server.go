package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/innovation-earth/iepsite/internal/catalog"
	"github.com/innovation-earth/iepsite/internal/contact"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/projects"
	"github.com/innovation-earth/iepsite/internal/render"
	"github.com/innovation-earth/iepsite/internal/server"
	"github.com/innovation-earth/iepsite/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Innovation Earth Projects site",
	Long:  `Starts the site server: the single-page site, its page session socket, and the projects, contact and event registration JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := st.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:           port,
			AllowAll:       st.cfg.Server.AllowAllOrigins,
			RequestTimeout: st.cfg.Server.RequestTimeout,
		}, st.log)

		if err := registerAllRoutes(srv, st); err != nil {
			return err
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "iepsite server %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Projects: %s\n", st.storeName())
		st.log.Info("starting",
			logging.Int("port", port),
			logging.String("remote", string(st.cfg.Remote.Driver)),
			logging.String("database", st.db.Path()),
		)

		return srv.Start()
	},
}

// registerAllRoutes wires the API, the page and the session socket.
func registerAllRoutes(srv *server.Server, st *stack) error {
	r := srv.Routes()

	// Projects API
	projects.RegisterRoutes(r, st.repo)

	// Contact form and event registration
	contactSvc := contact.NewService(st.local, st.log)
	contact.RegisterRoutes(r, contactSvc)

	// Page and session
	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	views, err := render.NewViews(cat)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	site, err := web.New(web.Options{
		Title:          st.cfg.Site.Title,
		TagSuggestions: st.cfg.Site.TagSuggestions,
		Projects:       st.repo,
		Contact:        contactSvc,
		Local:          st.local,
		Views:          views,
		Logger:         st.log,
	})
	if err != nil {
		return err
	}
	site.RegisterRoutes(r)
	site.RegisterSocket(srv.Router())
	return nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
