package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/research_radar/app/research_radar/internal/service"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
)

// NewHTTPServer 记录浏览 API
func NewHTTPServer(c config.ServerConfig, s *service.RecordService) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	register(srv, s)
	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return srv
}

func register(srv *http.Server, s *service.RecordService) {
	r := srv.Route("/")
	r.GET("/records", listRecordsHandler(s))
	r.GET("/records/{name}", getRecordHandler(s))
	r.POST("/runs", createRunHandler(s))
}

func listRecordsHandler(s *service.RecordService) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, "/research_radar.Records/ListRecords")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return s.ListRecords(c)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

func getRecordHandler(s *service.RecordService) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, "/research_radar.Records/GetRecord")
		name := ctx.Vars().Get("name")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return s.GetRecord(c, name)
		})
		out, err := h(ctx, name)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

func createRunHandler(s *service.RecordService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.CreateRunReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, "/research_radar.Records/CreateRun")
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return s.CreateRun(c, req.(*service.CreateRunReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}
