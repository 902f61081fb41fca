/*
 * Copyright (c) 2026 frozensunq contributors
 */
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/frozensunq/notifyout/notify"
)

// DefaultCfgFile mirrors tdnsd's DefaultCfgFile convention: one fixed
// path, overridable via the --config flag (ParseConfig's cfgFile
// argument, grounded on tdns/main_initfuncs.go's MainInit —
// pflag.StringVar(&conf.Internal.CfgFile, "config", defaultcfg, ...)).
// ParseConfig enables viper.AutomaticEnv() with no environment prefix;
// it does not change which file is read.
const DefaultCfgFile = "/etc/notifyd/notifyd.yaml"

// ParseConfig reads cfgFile (or DefaultCfgFile, if cfgFile is empty)
// via viper and unmarshals it into conf, grounded on tdnsd/main.go's
// ParseConfig — generalized to this daemon's flatter single-file
// config (no separate zones.yaml, since the zone set here is just
// name/class/secondaries, not the teacher's full DNSSEC
// key-management configuration).
func ParseConfig(conf *Config, cfgFile string) error {
	if cfgFile == "" {
		cfgFile = DefaultCfgFile
	}
	viper.SetConfigFile(cfgFile)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		return fmt.Errorf("could not load config %s: %w", cfgFile, err)
	}

	if err := viper.Unmarshal(conf); err != nil {
		return fmt.Errorf("error unmarshalling config into struct: %w", err)
	}

	if conf.Notify.MaxNotifyNum == 0 && conf.Notify.MaxTry == 0 && conf.Notify.InitialTimeout == 0 {
		conf.Notify = notify.DefaultConfig()
	}

	if err := conf.Notify.Validate(); err != nil {
		log.Fatalf("Invalid notify configuration: %v", err)
	}

	log.Printf("Config parsed. %d zones configured.", len(conf.Zones))
	return nil
}
