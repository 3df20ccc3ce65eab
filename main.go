package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfthub/app"
	"github.com/MixinNetwork/nfthub/store"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bp := flag.String("d", "~/.mixin/nfthub/data", "database directory path")
	cp := flag.String("c", "~/.mixin/nfthub/config.toml", "configuration file path")
	flag.Parse()

	conf, err := vm.Setup(expandPath(*cp))
	if err != nil {
		panic(err)
	}
	logger.SetLevel(conf.Log.Level)

	db, err := store.OpenBadger(ctx, expandPath(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	clock, err := vm.NewClock(db)
	if err != nil {
		panic(err)
	}
	rt := vm.NewRuntime(db, clock)
	codes := app.Register(rt)
	d, err := app.Bootstrap(ctx, db, rt, codes, conf)
	if err != nil {
		panic(err)
	}
	logger.Printf("NFT hub %s ready with marketplace %s\n", d.Hub, d.Marketplace)

	if conf.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		err = vm.RegisterMetrics(reg)
		if err != nil {
			panic(err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			err := http.ListenAndServe(conf.Metrics.Listen, mux)
			logger.Printf("metrics server %s => %v\n", conf.Metrics.Listen, err)
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Printf("NFT hub %s shutting down\n", d.Hub)
}
