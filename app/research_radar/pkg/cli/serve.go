package cli

import (
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/research_radar/app/research_radar/internal/server"
	"github.com/iWorld-y/research_radar/app/research_radar/internal/service"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/engine"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
)

// Version 通过 -ldflags "-X .../pkg/cli.Version=x.y.z" 注入
var Version = "dev"

func newServeCommand(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve saved records over HTTP and accept new runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, err := bootstrap(opts)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			eng, err := engine.NewEngine(cfg, store)
			if err != nil {
				return err
			}

			id, _ := os.Hostname()
			klog := log.With(log.NewStdLogger(os.Stdout),
				"ts", log.DefaultTimestamp,
				"caller", log.DefaultCaller,
				"service.id", id,
				"service.name", "research_radar",
				"service.version", Version,
			)

			svc := service.NewRecordService(cfg.Output.Dir, eng, klog)
			app := kratos.New(
				kratos.ID(id),
				kratos.Name("research_radar"),
				kratos.Version(Version),
				kratos.Logger(klog),
				kratos.Context(cmd.Context()),
				kratos.Server(server.NewHTTPServer(cfg.Server, svc)),
			)
			logger.Log.Infof("记录浏览服务启动: %s (mode=%s)", cfg.Server.Addr, eng.Mode())
			return app.Run()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
