package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/fixkme/appstorm/console"
	"github.com/fixkme/appstorm/framework/app"
	"github.com/fixkme/appstorm/framework/config"
	"github.com/fixkme/appstorm/message"
	"github.com/fixkme/appstorm/mlog"
	"github.com/fixkme/appstorm/timer"
	ustime "github.com/fixkme/appstorm/util/time"
)

var (
	configFile  = flag.String("config", "", "config file, .json or .yaml")
	heartbeatMs = flag.Int64("heartbeat", 1000, "heartbeat timer timeout in ms")
)

func main() {
	flag.Parse()

	if err := config.LoadConfig(*configFile, nil); err != nil {
		log.Fatalf("load config %q failed: %v", *configFile, err)
	}
	conf := config.Config
	ustime.SetTimezone(int64(conf.TimezoneOffset))

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	level := mlog.ParseLevel(conf.LogLevel)
	if conf.LogPath != "" {
		if err := mlog.UseDefaultLogger(ctx, wg, conf.LogPath, conf.LogName, level, conf.LogStdOut); err != nil {
			log.Fatalf("init logger failed: %v", err)
		}
	} else {
		mlog.UseStdLogger(level)
	}
	mlog.Infof("config:\n%s", conf.JsonFormat())

	mod, release, err := setup(conf, *heartbeatMs)
	if err != nil {
		mlog.Fatalf("setup failed: %v", err)
	}
	if err := app.DefaultApp().Run(mod); err != nil {
		mlog.Errorf("app run failed: %v", err)
	}
	release()

	cancel()
	wg.Wait()
}

// setup 组装console, 消息总线和定时器, release在模块销毁后释放总线
func setup(conf *config.AppConfig, heartbeatMs int64) (mod *timer.Module, release func(), err error) {
	cons := console.New(console.Config{
		Level:      conf.ConsoleLevel,
		Verbose:    conf.ConsoleVerbose,
		Namespaces: conf.ConsoleNamespaces,
		TraceLimit: conf.ConsoleTraceLimit,
	})
	bus, err := message.NewBus(message.WithPool(conf.MessagePoolSize))
	if err != nil {
		return nil, nil, err
	}

	registry := timer.NewRegistry(
		timer.WithName(conf.TimerName),
		timer.WithInterval(conf.TimerIntervalMs),
		timer.WithPublisher(bus),
		timer.WithWarner(cons),
	)

	var ticks atomic.Int64
	bus.Bind(timer.TickEvent, func(any) { ticks.Add(1) })
	registry.Add(func() {
		cons.Info("app.heartbeat: alive, ticks="+strconv.FormatInt(ticks.Load(), 10), 1)
	}, heartbeatMs)
	registry.Once(func() {
		cons.Info("app.boot: first second elapsed", 1)
	}, ustime.SecMs)

	return timer.NewModule("timer", registry), bus.Release, nil
}
