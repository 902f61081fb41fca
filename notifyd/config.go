/*
 * Copyright (c) 2026 frozensunq contributors
 */
package main

import (
	"net"
	"strconv"

	"github.com/frozensunq/notifyout/notify"
)

// ZoneConf is one entry under the "zones" map in the config file: a
// zone this daemon notifies secondaries for, plus whichever
// secondaries are statically configured (the resolver may add more).
type ZoneConf struct {
	Class       string   `mapstructure:"class"`
	Secondaries []string `mapstructure:"secondaries"`
}

// Config is the top-level config struct viper unmarshals into,
// grounded on tdnsd's Config/ZoneConf split in tdnsd/parseconfig.go —
// generalized down to just what a NOTIFY dispatcher needs.
type Config struct {
	Notify    notify.Config       `mapstructure:"notify"`
	Zones     map[string]ZoneConf `mapstructure:"zones"`
	ApiServer struct {
		Address string `mapstructure:"address"`
		Key     string `mapstructure:"key"`
	} `mapstructure:"apiserver"`
	Log struct {
		File string `mapstructure:"file"`
	} `mapstructure:"log"`
	Db struct {
		File string `mapstructure:"file"`
	} `mapstructure:"db"`
}

// parseEndpoint turns a configured secondary address into a
// notify.Endpoint, defaulting the port to 53. Accepts a bare IPv4 or
// IPv6 address ("192.0.2.1", "2001:db8::1"), "host:port" for IPv4, and
// bracketed "[host]:port" for IPv6 — net.SplitHostPort already
// requires brackets around an IPv6 host when a port is present, so a
// bare IPv6 address (no brackets) correctly falls through to the
// whole-string branch instead of being misparsed as host "2001" port
// "db8::1".
func parseEndpoint(s string) notify.Endpoint {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return notify.Endpoint{IP: s, Port: 53}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return notify.Endpoint{IP: host, Port: 53}
	}
	return notify.Endpoint{IP: host, Port: uint16(port)}
}

// registerZones feeds every configured zone into d, translating each
// ZoneConf's textual secondaries into notify.Endpoint values.
func registerZones(d *notify.Dispatcher, zones map[string]ZoneConf) {
	for name, zc := range zones {
		class, ok := notify.ClassFromString(zc.Class)
		if !ok {
			class, _ = notify.ClassFromString("")
		}
		var eps []notify.Endpoint
		for _, s := range zc.Secondaries {
			eps = append(eps, parseEndpoint(s))
		}
		d.RegisterZone(name, class, eps)
	}
}
