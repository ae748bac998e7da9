/*
Gcodesrv starts an HTTP server exposing the G-code editing pipeline as a
small REST API: create a session, submit line edits, and fetch any pipeline
stage's JSON projection.

Usage:

	gcodesrv [flags]

Once started, gcodesrv listens for HTTP requests on the configured address
and responds using a JSON REST protocol under /api/v1. By default it listens
on localhost:8080 and uses an in-memory, non-persistent store.

If a JWT token secret is not given, one is generated and seeded from
crypto/rand. As a consequence, in that mode of operation all issued tokens
become invalid as soon as the server shuts down. This is suitable for testing
but must be supplied via flag or environment variable in production.

The flags are:

	-v, --version
		Give the current version of gcodesrv and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the value of environment variable
		GCODESRV_LISTEN_ADDRESS, and if that is unset, to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Defaults to the value
		of environment variable GCODESRV_TOKEN_SECRET, and if that is unset
		and empty, a random secret is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. sqlite needs the path to a data directory, e.g.
		"sqlite:path/to/data". Defaults to the value of environment variable
		GCODESRV_DATABASE, and if that is unset, to inmem.

	--operator-user NAME
	--operator-pass PASSWORD
		The single operator credential pair seeded at startup. Defaults to
		"operator" / "gcode", suitable only for local testing.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/gcodec/internal/version"
	"github.com/dekarrin/gcodec/server/gcapi"
	"github.com/dekarrin/gcodec/server/gcauth"
	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/dekarrin/gcodec/server/gcdao/inmem"
	"github.com/dekarrin/gcodec/server/gcdao/sqlite"
	"github.com/dekarrin/gcodec/server/gcmiddle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "GCODESRV_LISTEN_ADDRESS"
	EnvSecret = "GCODESRV_TOKEN_SECRET"
	EnvDB     = "GCODESRV_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of gcodesrv and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagOpUser  = pflag.String("operator-user", "operator", "Username of the seeded operator credential.")
	flagOpPass  = pflag.String("operator-pass", "gcode", "Password of the seeded operator credential.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port, err := resolveListenAddr()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	dbType, dataDir, err := resolveDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	secret, err := resolveSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	store, err := connect(dbType, dataDir)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Store initialized (%s)", dbType)

	ctx := context.Background()
	if err := gcauth.Seed(ctx, store.Operators(), *flagOpUser, *flagOpPass); err != nil {
		log.Fatalf("FATAL could not seed operator: %s", err.Error())
	}

	auth := gcauth.Service{Ops: store.Operators(), Secret: secret}
	api := gcapi.API{
		Sessions:    store.Sessions(),
		Auth:        auth,
		UnauthDelay: time.Second,
	}

	router := buildRouter(api)

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  Starting gcodesrv %s on %s...", version.Current, listenAddr)
	if err := http.ListenAndServe(listenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func buildRouter(api gcapi.API) http.Handler {
	r := chi.NewRouter()
	r.Use(gcmiddle.RequestID)
	r.Use(gcmiddle.DontPanic())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route(gcapi.PathPrefix, func(r chi.Router) {
		r.Post("/auth/login", api.HTTPLogin())

		r.Group(func(r chi.Router) {
			r.Use(gcmiddle.RequireAuth(api.Auth, api.UnauthDelay))
			r.Post("/sessions", api.HTTPCreateSession())
			r.Post("/sessions/{id}/lines/{n}", api.HTTPEditLine())
			r.Get("/sessions/{id}/{stage}", api.HTTPGetStage())
		})
	})

	return r
}

func connect(dbType gcdao.DBType, dataDir string) (gcdao.Store, error) {
	switch dbType {
	case gcdao.DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case gcdao.DatabaseSQLite:
		if err := os.MkdirAll(dataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlite.NewDatastore(dataDir)
	default:
		return nil, fmt.Errorf("unknown database type: %q", dbType)
	}
}

func resolveListenAddr() (addr string, port int, err error) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080, nil
	}

	parts := strings.SplitN(listenAddr, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return parts[0], port, nil
}

func resolveDB() (gcdao.DBType, string, error) {
	connStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		connStr = *flagDB
	}
	if connStr == "" {
		return gcdao.DatabaseInMemory, "", nil
	}

	parts := strings.SplitN(connStr, ":", 2)
	dbType, err := gcdao.ParseDBType(parts[0])
	if err != nil {
		return gcdao.DatabaseNone, "", err
	}
	if dbType == gcdao.DatabaseSQLite {
		if len(parts) != 2 || parts[1] == "" {
			return gcdao.DatabaseNone, "", fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		return dbType, parts[1], nil
	}
	return dbType, "", nil
}

func resolveSecret() ([]byte, error) {
	secretStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secretStr = *flagSecret
	}

	if secretStr != "" {
		secret := []byte(secretStr)
		for len(secret) < 32 {
			secret = append(secret, secret...)
		}
		if len(secret) > 64 {
			return nil, fmt.Errorf("token secret is %d bytes, but it must be <= 64 bytes", len(secret))
		}
		return secret, nil
	}

	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("could not generate token secret: %w", err)
	}
	log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	return secret, nil
}
