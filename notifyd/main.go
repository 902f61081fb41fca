/*
 * Copyright (c) 2026 frozensunq contributors
 */
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/frozensunq/notifyout/notify"
)

var appVersion string

// mainloop is the signal-dispatch goroutine, grounded on
// tdnsd/main.go's mainloop: SIGINT/SIGTERM trigger a clean shutdown,
// SIGHUP is a no-op notice here (there is no per-zone refresh cycle to
// force the way tdnsd has one).
func mainloop(d *notify.Dispatcher) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	hupper := make(chan os.Signal, 1)
	signal.Notify(hupper, syscall.SIGHUP)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		for {
			select {
			case <-exit:
				log.Println("mainloop: exit signal received, shutting down dispatcher")
				d.Shutdown()
				wg.Done()
				return
			case <-hupper:
				log.Println("mainloop: SIGHUP received (no-op: zone set is read once at startup)")
			}
		}
	}()
	wg.Wait()

	fmt.Println("mainloop: leaving signal dispatcher")
}

// cfgFile and debug are parsed from the command line, grounded on
// tdns/main_initfuncs.go's MainInit (pflag.StringVar for --config,
// pflag.BoolVarP for --debug).
var (
	cfgFile string
	debug   bool
)

func main() {
	pflag.StringVar(&cfgFile, "config", "", "config file path (default "+DefaultCfgFile+")")
	pflag.BoolVarP(&debug, "debug", "", false, "log extra startup detail")
	pflag.Parse()

	var conf Config
	if err := ParseConfig(&conf, cfgFile); err != nil {
		log.Fatalf("Error parsing config: %v", err)
	}

	logger := notify.NewLogger(conf.Log.File)
	logger.Printf("notifyd version %s starting", appVersion)
	if debug {
		logger.Printf("debug: using config file %q, %d zones, db file %q", cfgFile, len(conf.Zones), conf.Db.File)
	}

	var ds notify.DataSource
	if conf.Db.File != "" {
		sqliteDS, err := notify.NewSqliteSource(conf.Db.File)
		if err != nil {
			log.Fatalf("Error opening sqlite data source: %v", err)
		}
		ds = sqliteDS
	} else {
		log.Fatalf("notifyd requires db.file to be set (no in-memory data source in production)")
	}

	d := notify.NewDispatcher(conf.Notify, ds, notify.SystemSocketFactory{}, notify.NewMapCounterStore(), notify.SystemClock{}, logger)
	registerZones(d, conf.Zones)
	d.Start()

	APIdispatcher(&conf, d)

	mainloop(d)
}
