/*
Glintd starts the glint script service and begins listening for HTTP
requests.

Usage:

	glintd [flags]

The flags are:

	-v, --version
		Give the current version of glintd and then exit.

	-c, --config FILE
		Path to a TOML config file. Defaults to glintd.toml in the current
		directory.

If no config file is found, glintd starts with an in-memory store and a
randomly generated token secret; any tokens issued become invalid as soon
as the server shuts down. This is suitable for local development only.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/glint/internal/svc"
	"github.com/dekarrin/glint/internal/version"
	"github.com/spf13/pflag"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of glintd and then exit.")
	flagConfig  = pflag.StringP("config", "c", "glintd.toml", "Path to a TOML config file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("glintd (glint v%s)\n", version.Current)
		return
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}

	srv, err := svc.NewServer(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}

	log.Printf("INFO  Starting glintd %s...", version.Current)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

// loadConfig reads path as TOML into a svc.Config. A missing file is not
// fatal: it falls back to an in-memory, randomly-secured dev configuration.
func loadConfig(path string) (svc.Config, error) {
	var fc svc.FileConfig

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return svc.Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		log.Printf("WARN  %s not found; using generated dev configuration", path)
		return devConfig()
	}

	dbType, err := svc.ParseDBType(fc.Database.Type)
	if err != nil {
		return svc.Config{}, err
	}

	hash, err := svc.HashPassword(fc.Operator.Password)
	if err != nil {
		return svc.Config{}, err
	}

	return svc.Config{
		BindAddress:       fc.BindAddress,
		TokenSecret:       []byte(fc.TokenSecret),
		UnauthDelayMillis: fc.UnauthDelayMillis,
		DB:                svc.Database{Type: dbType, DataDir: fc.Database.DataDir},
		Operator:          svc.Operator{Username: fc.Operator.Username, PasswordHash: hash},
	}, nil
}

func devConfig() (svc.Config, error) {
	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		return svc.Config{}, fmt.Errorf("could not generate token secret: %w", err)
	}

	hash, err := svc.HashPassword("password")
	if err != nil {
		return svc.Config{}, err
	}

	return svc.Config{
		TokenSecret: secret,
		DB:          svc.Database{Type: svc.DatabaseInMemory},
		Operator:    svc.Operator{Username: "admin", PasswordHash: hash},
	}, nil
}
